// internal/app/store/ratelimit/store.go
//
// Package ratelimit tracks failed sign-in attempts per account and locks an
// account out after too many failures inside a window. Lookups fail open: a
// database error never blocks a login.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Attempt tracks failed attempts for one key (a normalized email).
type Attempt struct {
	Key          string     `bson:"key"`
	AttemptCount int        `bson:"attempt_count"` // failures in the current window
	WindowStart  time.Time  `bson:"window_start"`
	LockedUntil  *time.Time `bson:"locked_until"`
	LastAttempt  time.Time  `bson:"last_attempt"` // TTL index field
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

// Store manages failed-attempt tracking.
type Store struct {
	c               *mongo.Collection
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

// New creates a rate limit Store: maxAttempts failures within window lock the
// key for lockout.
func New(db *mongo.Database, maxAttempts int, window, lockout time.Duration) *Store {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Store{
		c:               db.Collection("rate_limits"),
		maxAttempts:     maxAttempts,
		windowDuration:  window,
		lockoutDuration: lockout,
		now:             time.Now,
	}
}

// Status is the outcome of CheckAllowed.
type Status struct {
	Allowed     bool
	Remaining   int        // attempts left before lockout; -1 while locked
	LockedUntil *time.Time // set while locked
}

// RetryAfter returns how long until a locked key may try again.
func (s Status) RetryAfter(now time.Time) time.Duration {
	if s.LockedUntil == nil {
		return 0
	}
	if d := s.LockedUntil.Sub(now); d > 0 {
		return d
	}
	return 0
}

func (s *Store) load(ctx context.Context, key string) (*Attempt, error) {
	var a Attempt
	err := s.c.FindOne(ctx, bson.M{"key": key}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CheckAllowed reports whether key may attempt a login now.
func (s *Store) CheckAllowed(ctx context.Context, key string) Status {
	key = normalize.Email(key)
	now := s.now()

	a, err := s.load(ctx, key)
	if err != nil || a == nil {
		return Status{Allowed: true, Remaining: s.maxAttempts}
	}
	if a.LockedUntil != nil && now.Before(*a.LockedUntil) {
		return Status{Allowed: false, Remaining: -1, LockedUntil: a.LockedUntil}
	}
	if now.After(a.WindowStart.Add(s.windowDuration)) {
		return Status{Allowed: true, Remaining: s.maxAttempts}
	}
	remaining := s.maxAttempts - a.AttemptCount
	if remaining <= 0 {
		if a.LockedUntil != nil {
			// Lockout served; the next failure starts a new count.
			return Status{Allowed: true, Remaining: s.maxAttempts}
		}
		return Status{Allowed: false, Remaining: 0}
	}
	return Status{Allowed: true, Remaining: remaining}
}

// RecordFailure counts a failed attempt and reports whether it caused a lockout.
func (s *Store) RecordFailure(ctx context.Context, key string) (lockedOut bool, lockedUntil *time.Time) {
	key = normalize.Email(key)
	now := s.now()

	a, err := s.load(ctx, key)
	if err != nil {
		return false, nil
	}

	expired := a != nil && (now.After(a.WindowStart.Add(s.windowDuration)) ||
		(a.LockedUntil != nil && !now.Before(*a.LockedUntil)))
	if a == nil || expired {
		created := now
		if a != nil {
			created = a.CreatedAt
		}
		a = &Attempt{Key: key, WindowStart: now, CreatedAt: created}
	}
	a.AttemptCount++
	a.LastAttempt = now
	a.UpdatedAt = now
	a.LockedUntil = nil

	if a.AttemptCount >= s.maxAttempts {
		until := now.Add(s.lockoutDuration)
		a.LockedUntil = &until
		lockedOut, lockedUntil = true, &until
	}

	_, _ = s.c.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{
			"$set": bson.M{
				"attempt_count": a.AttemptCount,
				"window_start":  a.WindowStart,
				"locked_until":  a.LockedUntil,
				"last_attempt":  a.LastAttempt,
				"updated_at":    a.UpdatedAt,
			},
			"$setOnInsert": bson.M{"created_at": a.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	return lockedOut, lockedUntil
}

// ClearOnSuccess forgets key after a successful login.
func (s *Store) ClearOnSuccess(ctx context.Context, key string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"key": normalize.Email(key)})
	return err
}

// GetAttempt returns the current record for key, or nil.
func (s *Store) GetAttempt(ctx context.Context, key string) (*Attempt, error) {
	return s.load(ctx, normalize.Email(key))
}
