package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"standalone code", mongo.CommandError{Code: 20, Message: "x"}, true},
		{"documentdb code", mongo.CommandError{Code: 263}, true},
		{"other code", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"message", errors.New("Transaction numbers are only allowed on a replica set member or mongos"), true},
		{"single keyword", errors.New("session expired"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun_WritesAndPropagatesErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	coll := db.Collection("txn_test")

	err := Run(ctx, db, nil, func(tx context.Context) error {
		if _, err := coll.InsertOne(tx, bson.M{"k": "a"}); err != nil {
			return err
		}
		_, err := coll.InsertOne(tx, bson.M{"k": "b"})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, _ := coll.CountDocuments(ctx, bson.M{})
	if n != 2 {
		t.Errorf("documents = %d, want 2", n)
	}

	boom := errors.New("boom")
	if err := Run(ctx, db, nil, func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want boom", err)
	}
}
