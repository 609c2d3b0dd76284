// internal/domain/models/content.go
package models

import "time"

// Service is an offering shown on the services page.
type Service struct {
	Meta        `bson:",inline"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`         // icon name, e.g. "Shield"
	Category    string `bson:"category" json:"category"` // Security, Intelligence, SME
	Order       int    `bson:"order" json:"order"`       // display sequence, ascending
	IsActive    bool   `bson:"is_active" json:"is_active"`
}

// DefaultServiceIcon is used when a service is created without an icon.
const DefaultServiceIcon = "Shield"

// Service categories used by the admin editor.
const (
	ServiceCategorySecurity     = "Security"
	ServiceCategoryIntelligence = "Intelligence"
	ServiceCategorySME          = "SME"
)

// FAQ is a question/answer pair.
type FAQ struct {
	Meta     `bson:",inline"`
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
	Category string `bson:"category" json:"category"`
	Order    int    `bson:"order" json:"order"`
	IsActive bool   `bson:"is_active" json:"is_active"`
}

// Testimonial is a client quote.
type Testimonial struct {
	Meta        `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Role        string `bson:"role" json:"role"`
	Company     string `bson:"company" json:"company"`
	CompanyType string `bson:"company_type,omitempty" json:"company_type,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
	Text        string `bson:"text" json:"text"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"` // URL
	Rating      int    `bson:"rating" json:"rating"`                   // 1..5
	Highlight   string `bson:"highlight,omitempty" json:"highlight,omitempty"`
	Industry    string `bson:"industry,omitempty" json:"industry,omitempty"`
	IsActive    bool   `bson:"is_active" json:"is_active"`
}

// Rating bounds for testimonials.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// ClampRating forces r into [MinRating, MaxRating]. Zero means "unset" and
// maps to DefaultRating.
func ClampRating(r int) int {
	switch {
	case r == 0:
		return DefaultRating
	case r < MinRating:
		return MinRating
	case r > MaxRating:
		return MaxRating
	}
	return r
}

// BlogPost is a news/insight article.
type BlogPost struct {
	Meta     `bson:",inline"`
	Title    string    `bson:"title" json:"title"`
	Slug     string    `bson:"slug" json:"slug"`       // unique across all posts
	Content  string    `bson:"content" json:"content"` // sanitized HTML/markdown
	Image    string    `bson:"image" json:"image"`
	Author   string    `bson:"author" json:"author"`
	Category string    `bson:"category" json:"category"`
	Date     time.Time `bson:"date" json:"date"`
}

// PageContent is an editable block of a public page.
// (Page, Section) is unique.
type PageContent struct {
	Meta    `bson:",inline"`
	Page    string `bson:"page" json:"page"`
	Section string `bson:"section" json:"section"`
	Content Value  `bson:"content" json:"content"`
}
