// internal/domain/models/settings.go
package models

import (
	"strings"
	"time"
)

// GlobalSetting is one key/value configuration entry.
// Key is stored lowercased and trimmed and is unique.
type GlobalSetting struct {
	Meta        `bson:",inline"`
	Key         string `bson:"key" json:"key"`
	Value       Value  `bson:"value" json:"value"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Group       string `bson:"group" json:"group"`
}

// Setting groups.
const (
	SettingGroupGeneral = "general"
	SettingGroupSite    = "site"
	SettingGroupSystem  = "system"
)

// NormalizeSettingKey lowercases and trims a setting key.
func NormalizeSettingKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Site setting keys. Each field of SiteSettings is persisted as one
// GlobalSetting in the "site" group.
const (
	KeySiteName           = "site_name"
	KeyDescription        = "description"
	KeyKeywords           = "keywords"
	KeyLogo               = "logo"
	KeyAnalyticsID        = "analytics_id"
	KeyEmail              = "email"
	KeyPhone              = "phone"
	KeyAddress            = "address"
	KeyFacebook           = "facebook"
	KeyTwitter            = "twitter"
	KeyLinkedIn           = "linkedin"
	KeyMaintenanceMode    = "maintenance_mode"
	KeyGoogleVerification = "google_verification"

	// KeySettingsVersion holds the SiteSettings version counter (system group).
	KeySettingsVersion = "settings_version"
)

// SiteSettings is the singleton view of the site-group settings consumed by
// the public shell (maintenance gate, SEO fields) and the admin editor.
type SiteSettings struct {
	SiteName           string `json:"site_name"`
	Description        string `json:"description"`
	Keywords           string `json:"keywords"`
	Logo               string `json:"logo"`
	AnalyticsID        string `json:"analytics_id"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	Facebook           string `json:"facebook"`
	Twitter            string `json:"twitter"`
	LinkedIn           string `json:"linkedin"`
	MaintenanceMode    bool   `json:"maintenance_mode"`
	GoogleVerification string `json:"google_verification"`

	Version   int64      `json:"version"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DefaultSiteSettings is what readers get when nothing has been stored.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{MaintenanceMode: false}
}

// SiteSettingKeys lists the persisted keys in editor order.
func SiteSettingKeys() []string {
	return []string{
		KeySiteName, KeyDescription, KeyKeywords, KeyLogo, KeyAnalyticsID,
		KeyEmail, KeyPhone, KeyAddress, KeyFacebook, KeyTwitter, KeyLinkedIn,
		KeyMaintenanceMode, KeyGoogleVerification,
	}
}

// ToValues decomposes s into per-key values.
func (s SiteSettings) ToValues() map[string]Value {
	return map[string]Value{
		KeySiteName:           StringValue(s.SiteName),
		KeyDescription:        StringValue(s.Description),
		KeyKeywords:           StringValue(s.Keywords),
		KeyLogo:               StringValue(s.Logo),
		KeyAnalyticsID:        StringValue(s.AnalyticsID),
		KeyEmail:              StringValue(s.Email),
		KeyPhone:              StringValue(s.Phone),
		KeyAddress:            StringValue(s.Address),
		KeyFacebook:           StringValue(s.Facebook),
		KeyTwitter:            StringValue(s.Twitter),
		KeyLinkedIn:           StringValue(s.LinkedIn),
		KeyMaintenanceMode:    BoolValue(s.MaintenanceMode),
		KeyGoogleVerification: StringValue(s.GoogleVerification),
	}
}

// SiteSettingsFromValues assembles the singleton view. Missing keys keep
// their default.
func SiteSettingsFromValues(values map[string]Value) SiteSettings {
	s := DefaultSiteSettings()
	str := func(k string) string {
		if v, ok := values[k]; ok {
			return v.AsString()
		}
		return ""
	}
	s.SiteName = str(KeySiteName)
	s.Description = str(KeyDescription)
	s.Keywords = str(KeyKeywords)
	s.Logo = str(KeyLogo)
	s.AnalyticsID = str(KeyAnalyticsID)
	s.Email = str(KeyEmail)
	s.Phone = str(KeyPhone)
	s.Address = str(KeyAddress)
	s.Facebook = str(KeyFacebook)
	s.Twitter = str(KeyTwitter)
	s.LinkedIn = str(KeyLinkedIn)
	s.GoogleVerification = str(KeyGoogleVerification)
	if v, ok := values[KeyMaintenanceMode]; ok {
		s.MaintenanceMode = v.AsBool()
	}
	return s
}
