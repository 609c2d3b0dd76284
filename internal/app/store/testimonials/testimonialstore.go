// internal/app/store/testimonials/testimonialstore.go
package testimonials

import (
	"context"
	"strings"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists testimonials.
type Store struct {
	*crud.Store[models.Testimonial, *models.Testimonial]
}

// New creates a testimonial Store.
func New(db *mongo.Database) *Store {
	return &Store{crud.New[models.Testimonial](db.Collection("testimonials"))}
}

// Normalize trims fields and clamps the rating.
func Normalize(t *models.Testimonial) {
	t.Name = strings.TrimSpace(t.Name)
	t.Role = strings.TrimSpace(t.Role)
	t.Company = strings.TrimSpace(t.Company)
	t.Text = strings.TrimSpace(t.Text)
	t.Rating = models.ClampRating(t.Rating)
}

// ListPublic returns active testimonials, newest first.
func (s *Store) ListPublic(ctx context.Context) ([]models.Testimonial, error) {
	return s.List(ctx, crud.ListOptions{Filter: bson.M{"is_active": true}})
}

// UpdateFields builds the $set document for an edit.
func UpdateFields(t *models.Testimonial) bson.M {
	Normalize(t)
	return bson.M{
		"name":         t.Name,
		"role":         t.Role,
		"company":      t.Company,
		"company_type": t.CompanyType,
		"location":     t.Location,
		"text":         t.Text,
		"image":        t.Image,
		"rating":       t.Rating,
		"highlight":    t.Highlight,
		"industry":     t.Industry,
		"is_active":    t.IsActive,
	}
}
