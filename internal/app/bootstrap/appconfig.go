// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits); this
// struct holds everything specific to the due-diligence site backend.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Browser admin session and the contact-form nonce cookie
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Admin bearer tokens
	TokenKey    string
	TokenMaxAge time.Duration

	// CSRF protection for cookie-session mutations
	CSRFKey string

	// Login lockout
	RateLimitEnabled       bool
	RateLimitLoginAttempts int
	RateLimitLoginWindow   time.Duration
	RateLimitLoginLockout  time.Duration

	// Contact form guard
	ContactMinFillTime   time.Duration // minimum time between render and submit (default: 3s)
	ContactRateWindow    time.Duration // one submission per client per window (default: 60s)
	SubmissionBackend    string        // "mongo" or "redis"
	SubmissionRetention  time.Duration // how long last-submission records are kept
	RedisURL             string        // used when SubmissionBackend is "redis"
	ContactNotifyTo      string        // staff inbox; falls back to the site settings email
	TrustedProxies       []string      // CIDRs or addresses whose X-Forwarded-For is believed
	SettingsRefreshEvery time.Duration
	Timeouts             timeouts.Config

	// File storage configuration
	StorageType      string // "local" or "s3"
	StorageLocalPath string
	StorageLocalURL  string

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageCFURL       string
	StorageCFKeyPairID string
	StorageCFKeyPath   string

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Base URL of the admin area, used in notification links
	BaseURL string

	// Event publishing; blank disables it
	NATSURL string

	// Activity log destination: "all" (MongoDB + zap), "db", "log" or "off"
	ActivityLogMode string

	// Bootstrap admin, created when no active admin exists
	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
}
