// internal/app/store/blogs/blogstore.go
package blogs

import (
	"context"
	"strings"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists blog posts.
type Store struct {
	*crud.Store[models.BlogPost, *models.BlogPost]
}

// New creates a blog post Store. Posts list newest first.
func New(db *mongo.Database) *Store {
	return &Store{crud.New[models.BlogPost](db.Collection("blog_posts"),
		crud.WithUnique("uniq_blog_posts_slug", "slug"),
		crud.WithDefaultSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}))}
}

// Slugify derives a URL slug from a title: folded to lowercase ASCII,
// non-alphanumerics collapsed to single dashes.
func Slugify(title string) string {
	folded := strings.ToLower(text.Fold(title))
	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Normalize trims fields, derives a missing slug and defaults the date.
func Normalize(p *models.BlogPost, now time.Time) {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = Slugify(strings.TrimSpace(p.Slug))
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.Author = strings.TrimSpace(p.Author)
	p.Category = strings.TrimSpace(p.Category)
	p.Image = strings.TrimSpace(p.Image)
	if p.Date.IsZero() {
		p.Date = now.UTC()
	}
}

// GetBySlug loads a post by its slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return s.FindOne(ctx, bson.M{"slug": strings.ToLower(strings.TrimSpace(slug))})
}

// GetByIDOrSlug accepts either a hex id or a slug.
func (s *Store) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.BlogPost, error) {
	if primitive.IsValidObjectID(idOrSlug) {
		p, err := s.Get(ctx, idOrSlug)
		if err == nil {
			return p, nil
		}
		if err != crud.ErrNotFound {
			return nil, err
		}
	}
	return s.GetBySlug(ctx, idOrSlug)
}

// UpdateFields builds the $set document for an edit.
func UpdateFields(p *models.BlogPost) bson.M {
	Normalize(p, time.Now())
	return bson.M{
		"title":    p.Title,
		"slug":     p.Slug,
		"content":  p.Content,
		"image":    p.Image,
		"author":   p.Author,
		"category": p.Category,
		"date":     p.Date,
	}
}
