package validators

import (
	"errors"
	"testing"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if err := EnsureAll(ctx, db, zap.NewNop()); err != nil {
			t.Fatalf("EnsureAll() run %d error = %v", i+1, err)
		}
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatal(err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, c := range collections() {
		if !have[c.name] {
			t.Errorf("collection %s missing", c.name)
		}
	}
}

func TestEnsureAll_RejectsInvalidDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	tests := []struct {
		coll string
		doc  bson.M
	}{
		{"faqs", bson.M{"question": "Why?"}},
		{"faqs", bson.M{"question": "Why?", "answer": "   "}},
		{"testimonials", bson.M{"name": "A", "role": "CFO", "company": "Acme", "text": "Great", "rating": 9}},
		{"contact_submissions", bson.M{"name": "A", "email": "a@b.co", "message": "hello there", "status": "spam"}},
		{"users", bson.M{"email": "a@b.co", "password_hash": "x", "role": "editor", "status": "active"}},
	}
	for _, tt := range tests {
		if _, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc); err == nil {
			t.Errorf("%s: insert %v should fail validation", tt.coll, tt.doc)
		}
	}

	ok := bson.M{"name": "A", "role": "CFO", "company": "Acme", "text": "Great", "rating": 5}
	if _, err := db.Collection("testimonials").InsertOne(ctx, ok); err != nil {
		t.Errorf("valid testimonial rejected: %v", err)
	}
}

func TestSchemaBuilder(t *testing.T) {
	doc := require("title", "slug").enum("status", "a", "b").intRange("rating", 1, 5).doc()
	js := doc["$jsonSchema"].(bson.M)
	if req := js["required"].(bson.A); len(req) != 2 || req[0] != "title" {
		t.Errorf("required = %v", req)
	}
	p := js["properties"].(bson.M)
	if p["status"].(bson.M)["enum"].(bson.A)[1] != "b" {
		t.Errorf("status enum = %v", p["status"])
	}
	if r := p["rating"].(bson.M); r["minimum"] != 1 || r["maximum"] != 5 {
		t.Errorf("rating = %v", r)
	}
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"code match", mongo.CommandError{Code: 48, Message: "x"}, true},
		{"message match", errors.New("collection already exists"), true},
		{"other", mongo.CommandError{Code: 11000, Message: "dup"}, false},
	}
	for _, tt := range tests {
		if got := hasCode(tt.err, 48, "already exists"); got != tt.want {
			t.Errorf("%s: hasCode() = %v, want %v", tt.name, got, tt.want)
		}
	}
	if !unsupported(mongo.CommandError{Code: 59}) || !unsupported(errors.New("Not Implemented")) {
		t.Error("unsupported() should match no-such-command and not-implemented")
	}
}
