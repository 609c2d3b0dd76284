// internal/app/store/submissions/submissions.go
//
// Package submissions remembers when each client last submitted each public
// form, so the contact handler can enforce the minimum interval between
// submissions. Mongo is the default backend; Redis is used when configured.
package submissions

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Tracker records and reports the last submission time per (form, client).
// A zero time means the client has never submitted that form.
type Tracker interface {
	Last(ctx context.Context, form, client string) (time.Time, error)
	Record(ctx context.Context, form, client string, at time.Time) error
}

type record struct {
	Form   string    `bson:"form"`
	Client string    `bson:"client"`
	LastAt time.Time `bson:"last_at"`
}

// MongoTracker stores records in form_submissions. A TTL index expires them
// after a day.
type MongoTracker struct {
	c *mongo.Collection
}

// NewMongo creates a Mongo-backed Tracker.
func NewMongo(db *mongo.Database) *MongoTracker {
	return &MongoTracker{c: db.Collection("form_submissions")}
}

func (m *MongoTracker) Last(ctx context.Context, form, client string) (time.Time, error) {
	var r record
	err := m.c.FindOne(ctx, bson.M{"form": form, "client": client}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return r.LastAt, nil
}

func (m *MongoTracker) Record(ctx context.Context, form, client string, at time.Time) error {
	_, err := m.c.UpdateOne(ctx,
		bson.M{"form": form, "client": client},
		bson.M{"$set": bson.M{"last_at": at.UTC()}},
		options.Update().SetUpsert(true))
	return err
}

// Purge deletes records older than cutoff and returns how many were removed.
// The TTL index does this eventually; the cleanup task calls it on schedule.
func (m *MongoTracker) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := m.c.DeleteMany(ctx, bson.M{"last_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
