// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup and by the test harness. Each ensure* function
is idempotent. Errors are aggregated so every problem is visible and startup
can fail fast.

Unique indexes are named uniq_<collection>_<field>; the crud layer reads the
index name back out of duplicate-key errors to report the offending field.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	sets := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"services", ensureServices},
		{"faqs", ensureFAQs},
		{"testimonials", ensureTestimonials},
		{"blog_posts", ensureBlogPosts},
		{"global_settings", ensureGlobalSettings},
		{"contact_submissions", ensureContactSubmissions},
		{"page_contents", ensurePageContents},
		{"activity_logs", ensureActivityLogs},
		{"users", ensureUsers},
		{"rate_limits", ensureRateLimits},
		{"form_submissions", ensureFormSubmissions},
	}

	var problems []string
	for _, s := range sets {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(p *bool) bool { return p != nil && *p }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// listExisting returns the collection's indexes keyed by key signature.
func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if boolOf(unique) == boolOf(ex.Unique) && (name == "" || ex.Name == name) {
				continue
			}
			// Same keys, different options or name: drop and recreate so the
			// name the crud layer expects is the one Mongo reports.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && boolOf(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolOf(unique)),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureServices(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("services"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetName("idx_services_active_order"),
		},
	})
}

func ensureFAQs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("faqs"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetName("idx_faqs_active_order"),
		},
	})
}

func ensureTestimonials(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("testimonials"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_testimonials_active_created"),
		},
	})
}

func ensureBlogPosts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("blog_posts"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_blog_posts_slug"),
		},
		{
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_blog_posts_date"),
		},
	})
}

func ensureGlobalSettings(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("global_settings"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_global_settings_key"),
		},
		{
			Keys:    bson.D{{Key: "group", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetName("idx_global_settings_group_key"),
		},
	})
}

func ensureContactSubmissions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("contact_submissions"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_contact_submissions_status_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_contact_submissions_created"),
		},
	})
}

func ensurePageContents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("page_contents"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "page", Value: 1}, {Key: "section", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_page_contents_page_section"),
		},
	})
}

func ensureActivityLogs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("activity_logs"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_logs_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "action", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_logs_action_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_logs_user_timestamp"),
		},
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
	})
}

func ensureRateLimits(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("rate_limits"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_rate_limits_key"),
		},
		// Old records expire after 24 hours.
		{
			Keys:    bson.D{{Key: "last_attempt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(86400).SetName("idx_rate_limits_ttl"),
		},
	})
}

func ensureFormSubmissions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("form_submissions"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "form", Value: 1}, {Key: "client", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_form_submissions_form_client"),
		},
		{
			Keys:    bson.D{{Key: "last_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(86400).SetName("idx_form_submissions_ttl"),
		},
	})
}
