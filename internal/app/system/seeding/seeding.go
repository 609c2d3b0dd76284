// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"fmt"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/faqs"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/pagecontent"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/services"
	settingsstore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/settings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/testimonials"
	userstore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/users"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/authutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls the optional bootstrap admin.
type Options struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// SeedAll inserts default content into empty collections and creates the
// bootstrap admin when no active admin exists. Existing data is never touched,
// so it is safe to run on every start.
func SeedAll(ctx context.Context, db *mongo.Database, opts Options, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return seedServices(gctx, db, logger) })
	g.Go(func() error { return seedFAQs(gctx, db, logger) })
	g.Go(func() error { return seedTestimonials(gctx, db, logger) })
	g.Go(func() error { return seedPageContent(gctx, db, logger) })
	if err := g.Wait(); err != nil {
		return err
	}
	if err := seedSiteSettings(ctx, db, logger); err != nil {
		return err
	}
	return seedAdmin(ctx, db, opts, logger)
}

func isEmpty(ctx context.Context, coll *mongo.Collection) (bool, error) {
	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return n == 0, nil
}

func seedServices(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := services.New(db)
	empty, err := isEmpty(ctx, store.Collection())
	if err != nil || !empty {
		return err
	}
	for _, s := range DefaultServices() {
		s := s
		if err := store.Create(ctx, &s); err != nil {
			logger.Error("failed to seed service", zap.String("title", s.Title), zap.Error(err))
			return err
		}
	}
	logger.Info("seeded default services", zap.Int("count", len(DefaultServices())))
	return nil
}

func seedFAQs(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := faqs.New(db)
	empty, err := isEmpty(ctx, store.Collection())
	if err != nil || !empty {
		return err
	}
	for _, f := range DefaultFAQs() {
		f := f
		if err := store.Create(ctx, &f); err != nil {
			logger.Error("failed to seed faq", zap.String("question", f.Question), zap.Error(err))
			return err
		}
	}
	logger.Info("seeded default faqs", zap.Int("count", len(DefaultFAQs())))
	return nil
}

func seedTestimonials(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := testimonials.New(db)
	empty, err := isEmpty(ctx, store.Collection())
	if err != nil || !empty {
		return err
	}
	for _, t := range DefaultTestimonials() {
		t := t
		if err := store.Create(ctx, &t); err != nil {
			logger.Error("failed to seed testimonial", zap.String("name", t.Name), zap.Error(err))
			return err
		}
	}
	logger.Info("seeded default testimonials", zap.Int("count", len(DefaultTestimonials())))
	return nil
}

func seedPageContent(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := pagecontent.New(db)
	for _, pc := range DefaultPageContent() {
		if _, err := store.GetSection(ctx, pc.Page, pc.Section); err == nil {
			continue
		}
		if _, err := store.Upsert(ctx, pc.Page, pc.Section, 0, pc.Content); err != nil {
			logger.Error("failed to seed page content",
				zap.String("page", pc.Page), zap.String("section", pc.Section), zap.Error(err))
			return err
		}
		logger.Info("seeded page content", zap.String("page", pc.Page), zap.String("section", pc.Section))
	}
	return nil
}

func seedSiteSettings(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := settingsstore.New(db)
	cur, err := store.LoadSite(ctx)
	if err != nil {
		return err
	}
	if cur.Version > 0 {
		return nil
	}
	if _, err := store.SaveSite(ctx, DefaultSiteSettings()); err != nil {
		return fmt.Errorf("seed site settings: %w", err)
	}
	logger.Info("seeded default site settings")
	return nil
}

func seedAdmin(ctx context.Context, db *mongo.Database, opts Options, logger *zap.Logger) error {
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil
	}
	store := userstore.New(db)
	n, err := store.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := authutil.ValidatePassword(opts.AdminPassword, opts.AdminEmail); err != nil {
		return fmt.Errorf("bootstrap admin password: %w", err)
	}
	hash, err := authutil.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}
	name := opts.AdminName
	if name == "" {
		name = "Administrator"
	}
	u, err := store.Create(ctx, models.User{
		FullName:     name,
		Email:        opts.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	logger.Info("created bootstrap admin", zap.String("email", u.Email))
	return nil
}
