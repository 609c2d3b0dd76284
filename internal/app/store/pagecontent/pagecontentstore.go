// internal/app/store/pagecontent/pagecontentstore.go
package pagecontent

import (
	"context"
	"errors"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/normalize"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists editable page blocks. (page, section) is unique.
type Store struct {
	*crud.Store[models.PageContent, *models.PageContent]
}

// New creates a page content Store.
func New(db *mongo.Database) *Store {
	return &Store{crud.New[models.PageContent](db.Collection("page_contents"),
		crud.WithUnique("uniq_page_contents_page_section", "section"),
		crud.WithDefaultSort(bson.D{{Key: "page", Value: 1}, {Key: "section", Value: 1}}))}
}

// GetPage returns every section of page keyed by section name.
func (s *Store) GetPage(ctx context.Context, page string) (map[string]models.PageContent, error) {
	list, err := s.List(ctx, crud.ListOptions{Filter: bson.M{"page": normalize.Key(page)}})
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.PageContent, len(list))
	for _, pc := range list {
		out[pc.Section] = pc
	}
	return out, nil
}

// GetSection loads one block.
func (s *Store) GetSection(ctx context.Context, page, section string) (*models.PageContent, error) {
	return s.FindOne(ctx, bson.M{"page": normalize.Key(page), "section": normalize.Key(section)})
}

// Upsert writes the content of (page, section). A positive revision must
// match the stored one; revision 0 writes unconditionally and creates the
// block when missing.
func (s *Store) Upsert(ctx context.Context, page, section string, revision int64, content models.Value) (*models.PageContent, error) {
	page, section = normalize.Key(page), normalize.Key(section)
	if page == "" {
		return nil, &crud.FieldError{Field: "page", Message: "Page is required."}
	}
	if section == "" {
		return nil, &crud.FieldError{Field: "section", Message: "Section is required."}
	}

	if revision > 0 {
		cur, err := s.GetSection(ctx, page, section)
		if err != nil {
			return nil, err
		}
		return s.Update(ctx, cur.ID.Hex(), revision, bson.M{"content": content})
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"content": content, "updated_at": now},
		"$inc":         bson.M{"revision": 1},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.PageContent
	err := s.Collection().FindOneAndUpdate(ctx, bson.M{"page": page, "section": section}, update, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, crud.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
