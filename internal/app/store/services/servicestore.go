// internal/app/store/services/servicestore.go
package services

import (
	"context"
	"strings"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists services.
type Store struct {
	*crud.Store[models.Service, *models.Service]
}

// New creates a service Store.
func New(db *mongo.Database) *Store {
	return &Store{crud.New[models.Service](db.Collection("services"),
		crud.WithDefaultSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}}))}
}

// Normalize trims fields and applies defaults before a write.
func Normalize(s *models.Service) {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Category = strings.TrimSpace(s.Category)
	s.Icon = strings.TrimSpace(s.Icon)
	if s.Icon == "" {
		s.Icon = models.DefaultServiceIcon
	}
}

// ListPublic returns active services in display order.
func (s *Store) ListPublic(ctx context.Context) ([]models.Service, error) {
	return s.List(ctx, crud.ListOptions{Filter: bson.M{"is_active": true}})
}

// ListAll returns every service in display order.
func (s *Store) ListAll(ctx context.Context) ([]models.Service, error) {
	return s.List(ctx, crud.ListOptions{})
}

// UpdateFields builds the $set document for an edit.
func UpdateFields(s *models.Service) bson.M {
	Normalize(s)
	return bson.M{
		"title":       s.Title,
		"description": s.Description,
		"icon":        s.Icon,
		"category":    s.Category,
		"order":       s.Order,
		"is_active":   s.IsActive,
	}
}
