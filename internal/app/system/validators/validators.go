// Package validators creates the site's collections and attaches JSON-Schema
// validators so a document missing a required field is refused by MongoDB
// even if it bypasses the API.
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// schema is a $jsonSchema object under construction.
type schema struct {
	required bson.A
	props    bson.M
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

// require marks fields as required non-blank strings.
func require(fields ...string) *schema {
	s := &schema{props: bson.M{}}
	for _, f := range fields {
		s.required = append(s.required, f)
		s.props[f] = nonBlank
	}
	return s
}

func (s *schema) enum(field string, values ...string) *schema {
	vals := make(bson.A, len(values))
	for i, v := range values {
		vals[i] = v
	}
	s.props[field] = bson.M{"enum": vals}
	return s
}

func (s *schema) intRange(field string, lo, hi int) *schema {
	s.props[field] = bson.M{"bsonType": bson.A{"int", "long"}, "minimum": lo, "maximum": hi}
	return s
}

func (s *schema) doc() bson.M {
	return bson.M{"$jsonSchema": bson.M{"bsonType": "object", "required": s.required, "properties": s.props}}
}

// collections lists every collection the site owns and its validator.
func collections() []struct {
	name   string
	schema *schema
} {
	return []struct {
		name   string
		schema *schema
	}{
		{"services", require("title", "description")},
		{"faqs", require("question", "answer")},
		{"testimonials", require("name", "role", "company", "text").intRange("rating", 1, 5)},
		{"blog_posts", require("title", "slug", "content", "image", "author", "category")},
		{"global_settings", require("key", "group")},
		{"contact_submissions", require("name", "email", "message").
			enum("status", models.ContactStatusNew, models.ContactStatusRead, models.ContactStatusReplied, models.ContactStatusArchived)},
		{"page_contents", require("page", "section")},
		{"activity_logs", require("user", "action").
			enum("action", models.ActionCreate, models.ActionUpdate, models.ActionDelete, models.ActionLogin, models.ActionSystem)},
		{"users", require("email", "password_hash", "role", "status").
			enum("role", models.RoleAdmin).
			enum("status", models.UserStatusActive, models.UserStatusDisabled)},
	}
}

// EnsureAll creates any missing collection and (re)applies its validator.
// Servers without collMod support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	existing := map[string]bool{}
	if names, err := db.ListCollectionNames(ctx, bson.M{}); err == nil {
		for _, n := range names {
			existing[n] = true
		}
	}

	var errs []error
	for _, c := range collections() {
		if !existing[c.name] {
			if err := db.CreateCollection(ctx, c.name); err != nil && !hasCode(err, 48, "already exists") {
				errs = append(errs, fmt.Errorf("%s: create: %w", c.name, err))
				continue
			}
			log.Info("created collection", zap.String("collection", c.name))
		}

		cmd := bson.D{
			{Key: "collMod", Value: c.name},
			{Key: "validator", Value: c.schema.doc()},
			{Key: "validationLevel", Value: "moderate"},
			{Key: "validationAction", Value: "error"},
		}
		if err := db.RunCommand(ctx, cmd).Err(); err != nil {
			if unsupported(err) {
				log.Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			errs = append(errs, fmt.Errorf("%s: validator: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

func unsupported(err error) bool {
	return hasCode(err, 59, "no such command") ||
		hasCode(err, 115, "not implemented") ||
		hasCode(err, 115, "not supported")
}

// hasCode reports whether err is a server CommandError with code, or any
// error whose text contains phrase.
func hasCode(err error, code int32, phrase string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), phrase)
}
