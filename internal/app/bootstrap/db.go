// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/submissions"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/events"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/indexes"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/mailer"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/seeding"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB, file storage, the mailer and the optional
// Redis and NATS backends.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema and
// Startup. Redis is required once selected; NATS is best effort and falls
// back to a no-op publisher so the site keeps serving without it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	// Configure MongoDB connection pool
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	// Initialize file storage
	var store storage.Store
	switch appCfg.StorageType {
	case "s3":
		store, err = storage.NewS3(ctx, storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
		if err != nil {
			return DBDeps{}, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.Info("initialized S3/CloudFront file storage",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("prefix", appCfg.StorageS3Prefix),
		)
	case "local", "":
		store, err = storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return DBDeps{}, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logger.Info("initialized local file storage",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL),
		)
	default:
		return DBDeps{}, fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}

	// Initialize email mailer
	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	logger.Info("initialized email mailer",
		zap.String("host", appCfg.MailSMTPHost),
		zap.Int("port", appCfg.MailSMTPPort),
		zap.Bool("enabled", mail.Enabled()),
	)

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		FileStorage:   store,
		Mailer:        mail,
		Publisher:     events.NoopPublisher{},
	}

	// Last-submission tracker for the contact form
	switch appCfg.SubmissionBackend {
	case "redis":
		rt, err := submissions.NewRedis(ctx, appCfg.RedisURL, appCfg.SubmissionRetention)
		if err != nil {
			return DBDeps{}, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.Redis = rt
		deps.Submissions = rt
		logger.Info("contact submissions tracked in Redis")
	default:
		deps.Submissions = submissions.NewMongo(db)
	}

	// Domain events
	if appCfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(appCfg.NATSURL, "ddsite", logger)
		if err != nil {
			logger.Warn("NATS unavailable; domain events disabled", zap.Error(err))
		} else {
			deps.NATS = np
			deps.Publisher = np
			logger.Info("publishing domain events to NATS", zap.String("url", appCfg.NATSURL))
		}
	}

	return deps, nil
}

// EnsureSchema creates collections with validators, indexes and seed data.
//
// The context has a timeout based on coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	// Ensure collections exist and attach JSON-Schema validators.
	// This runs first so indexes can be created on existing collections.
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db, logger); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	// Ensure database indexes for query performance.
	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	// Seed default content and the bootstrap admin
	logger.Info("seeding default data")
	opts := seeding.Options{
		AdminEmail:    appCfg.SeedAdminEmail,
		AdminPassword: appCfg.SeedAdminPassword,
		AdminName:     appCfg.SeedAdminName,
	}
	if err := seeding.SeedAll(ctx, db, opts, logger); err != nil {
		logger.Error("failed to seed default data", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
