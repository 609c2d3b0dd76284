// internal/app/store/faqs/faqstore.go
package faqs

import (
	"context"
	"strings"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists FAQs.
type Store struct {
	*crud.Store[models.FAQ, *models.FAQ]
}

// New creates an FAQ Store.
func New(db *mongo.Database) *Store {
	return &Store{crud.New[models.FAQ](db.Collection("faqs"),
		crud.WithDefaultSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}}))}
}

// ListPublic returns active FAQs, optionally narrowed to one category.
func (s *Store) ListPublic(ctx context.Context, category string) ([]models.FAQ, error) {
	filter := bson.M{"is_active": true}
	if c := strings.TrimSpace(category); c != "" {
		filter["category"] = c
	}
	return s.List(ctx, crud.ListOptions{Filter: filter})
}

// UpdateFields builds the $set document for an edit.
func UpdateFields(f *models.FAQ) bson.M {
	return bson.M{
		"question":  strings.TrimSpace(f.Question),
		"answer":    strings.TrimSpace(f.Answer),
		"category":  strings.TrimSpace(f.Category),
		"order":     f.Order,
		"is_active": f.IsActive,
	}
}
