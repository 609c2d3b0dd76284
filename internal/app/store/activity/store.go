// internal/app/store/activity/store.go
package activity

import (
	"context"
	"errors"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/storeutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInvalidAction is returned by Append for an unknown action.
var ErrInvalidAction = errors.New("invalid activity action")

// DefaultLimit caps Query when no limit is given.
const DefaultLimit = 100

// QueryFilter narrows Query. Zero values match everything.
type QueryFilter struct {
	Action    string
	User      string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

// Store is the append-only activity log. There is deliberately no update or
// delete method.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_logs")}
}

// Append records one entry, stamping id and timestamp when unset.
func (s *Store) Append(ctx context.Context, entry models.ActivityLog) (models.ActivityLog, error) {
	if !models.IsValidAction(entry.Action) {
		return entry, ErrInvalidAction
	}
	if entry.User == "" {
		entry.User = models.SystemUser
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return entry, err
}

func (f QueryFilter) query() bson.M {
	q := bson.M{}
	if f.Action != "" {
		q["action"] = f.Action
	}
	if f.User != "" {
		q["user"] = f.User
	}
	if f.StartTime != nil || f.EndTime != nil {
		tq := bson.M{}
		if f.StartTime != nil {
			tq["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			tq["$lte"] = *f.EndTime
		}
		q["timestamp"] = tq
	}
	return q
}

// Query returns matching entries, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]models.ActivityLog, error) {
	opts := storeutil.OffsetWindow(filter.Limit, filter.Offset, DefaultLimit).Apply(
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}))

	cur, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.ActivityLog, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of entries matching filter.
func (s *Store) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}
