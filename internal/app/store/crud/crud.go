// internal/app/store/crud/crud.go
//
// Package crud is the generic persistence layer shared by every entity store.
// It stamps identity, timestamps and revisions, maps duplicate-key failures to
// field-attributed constraint errors, and enforces optimistic concurrency on
// update.
package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/storeutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the id does not exist (or is malformed).
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped by ConstraintError.
	ErrDuplicate = errors.New("duplicate value")
	// ErrConflict is wrapped by ConflictError.
	ErrConflict = errors.New("revision conflict")
	// ErrInvalid is wrapped by FieldError.
	ErrInvalid = errors.New("invalid value")
)

// FieldError reports input a store refuses before touching the database.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

// ConstraintError reports a uniqueness violation on Field.
type ConstraintError struct {
	Field string
}

func (e *ConstraintError) Error() string {
	if e.Field == "" {
		return ErrDuplicate.Error()
	}
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

func (e *ConstraintError) Unwrap() error { return ErrDuplicate }

// ConflictError reports that the stored revision moved on. Current holds the
// stored document so callers can show or merge it.
type ConflictError struct {
	Current any
}

func (e *ConflictError) Error() string { return ErrConflict.Error() }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Document is implemented by entities that embed models.Meta.
type Document interface {
	Base() *models.Meta
}

// Store is a Mongo-backed collection of T. PT is *T.
type Store[T any, PT interface {
	*T
	Document
}] struct {
	c       *mongo.Collection
	unique  map[string]string // index name -> field
	defSort bson.D
	now     func() time.Time
}

// Option configures a Store.
type Option func(*config)

type config struct {
	unique  map[string]string
	defSort bson.D
}

// WithUnique maps a unique index name to the field reported in ConstraintError.
func WithUnique(indexName, field string) Option {
	return func(c *config) { c.unique[indexName] = field }
}

// WithDefaultSort sets the sort used by List when none is given.
func WithDefaultSort(sort bson.D) Option {
	return func(c *config) { c.defSort = sort }
}

// New creates a Store over coll.
func New[T any, PT interface {
	*T
	Document
}](coll *mongo.Collection, opts ...Option) *Store[T, PT] {
	cfg := config{
		unique:  map[string]string{},
		defSort: bson.D{{Key: "created_at", Value: -1}},
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &Store[T, PT]{
		c:       coll,
		unique:  cfg.unique,
		defSort: cfg.defSort,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Collection exposes the underlying collection for entity-specific queries.
func (s *Store[T, PT]) Collection() *mongo.Collection { return s.c }

// ListOptions filters and pages List.
type ListOptions struct {
	Filter bson.M
	Sort   bson.D
	Limit  int64 // 0 means no limit
	Page   int64 // 1-based; only used with Limit
}

// List returns documents matching opts.
func (s *Store[T, PT]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	filter := opts.Filter
	if filter == nil {
		filter = bson.M{}
	}
	find := storeutil.PageWindow(opts.Limit, opts.Page).Apply(options.Find())
	sort := opts.Sort
	if len(sort) == 0 {
		sort = s.defSort
	}
	find.SetSort(sort)

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of documents matching filter.
func (s *Store[T, PT]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.c.CountDocuments(ctx, filter)
}

// Get loads one document by hex id.
func (s *Store[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.FindOne(ctx, bson.M{"_id": oid})
}

// FindOne loads the first document matching filter.
func (s *Store[T, PT]) FindOne(ctx context.Context, filter bson.M) (PT, error) {
	var doc T
	if err := s.c.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return PT(&doc), nil
}

// Create inserts doc, assigning id, timestamps and revision 1.
func (s *Store[T, PT]) Create(ctx context.Context, doc PT) error {
	m := doc.Base()
	now := s.now()
	m.ID = primitive.NewObjectID()
	m.Revision = 1
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		m.ID = primitive.NilObjectID
		return s.mapWriteErr(err)
	}
	return nil
}

// Update replaces the fields in set on document id when its stored revision
// equals revision, and returns the updated document. A revision of 0 skips the
// check. set must not contain _id, revision or created_at.
func (s *Store[T, PT]) Update(ctx context.Context, id string, revision int64, set bson.M) (PT, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	filter := bson.M{"_id": oid}
	if revision > 0 {
		filter["revision"] = revision
	}

	fields := bson.M{}
	for k, v := range set {
		switch k {
		case "_id", "revision", "created_at":
			continue
		}
		fields[k] = v
	}
	fields["updated_at"] = s.now()

	update := bson.M{
		"$set": fields,
		"$inc": bson.M{"revision": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err = s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return PT(&doc), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.mapWriteErr(err)
	}

	// Nothing matched: either the document is gone or the revision moved.
	current, gerr := s.FindOne(ctx, bson.M{"_id": oid})
	if gerr != nil {
		return nil, gerr
	}
	return nil, &ConflictError{Current: current}
}

// Delete removes document id.
func (s *Store[T, PT]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// mapWriteErr converts duplicate-key failures into ConstraintError.
func (s *Store[T, PT]) mapWriteErr(err error) error {
	if !wafflemongo.IsDup(err) {
		return err
	}
	return &ConstraintError{Field: s.fieldForDup(err)}
}

// fieldForDup recovers the field from the index name in a duplicate-key error
// ("... index: uniq_blog_posts_slug dup key: ...").
func (s *Store[T, PT]) fieldForDup(err error) string {
	msg := err.Error()
	i := strings.Index(msg, "index: ")
	if i < 0 {
		return ""
	}
	rest := msg[i+len("index: "):]
	if j := strings.IndexAny(rest, " \t"); j >= 0 {
		rest = rest[:j]
	}
	if f, ok := s.unique[rest]; ok {
		return f
	}
	return ""
}
