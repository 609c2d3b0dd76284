// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/network"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "DDSITE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: DDSITE_MONGO_URI, DDSITE_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ddsite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "ddsite-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	// Bearer tokens
	{Name: "token_key", Default: "dev-only-token-key-please-change-0123456789", Desc: "Admin bearer token signing key (32+ chars in production)"},
	{Name: "token_max_age", Default: "12h", Desc: "Admin bearer token lifetime"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// Login lockout
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable lockout after repeated failed logins"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Max failed login attempts before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "Lockout duration after exceeding limit"},

	// Contact form
	{Name: "contact_min_fill_time", Default: "3s", Desc: "Minimum time between form render and submit"},
	{Name: "contact_rate_window", Default: "60s", Desc: "One contact submission per client per window"},
	{Name: "submission_backend", Default: "mongo", Desc: "Last-submission tracker backend: 'mongo' or 'redis'"},
	{Name: "submission_retention", Default: "24h", Desc: "How long last-submission records are kept"},
	{Name: "redis_url", Default: "redis://localhost:6379/0", Desc: "Redis URL for the 'redis' submission backend"},
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated CIDRs or IPs of reverse proxies whose X-Forwarded-For is trusted"},
	{Name: "contact_notify_to", Default: "", Desc: "Staff address for new contact requests (blank uses the site email)"},
	{Name: "settings_refresh_every", Default: "30s", Desc: "How often the site settings snapshot is reloaded"},
	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for each health probe"},
	{Name: "timeout_query", Default: "5s", Desc: "Deadline for background store operations"},
	{Name: "timeout_export", Default: "30s", Desc: "Deadline for an activity log CSV export"},
	{Name: "timeout_request", Default: "30s", Desc: "Overall deadline for one HTTP request"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables mail)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Due Diligence", Desc: "From display name"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Base URL used in notification links"},

	{Name: "nats_url", Default: "", Desc: "NATS server URL for domain events (blank disables publishing)"},

	{Name: "activity_log_mode", Default: "all", Desc: "Activity log: 'all' (db+log), 'db', 'log', or 'off'"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of the bootstrap admin"},
	{Name: "seed_admin_password", Default: "", Desc: "Password of the bootstrap admin"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Name of the bootstrap admin"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, DDSITE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		TokenKey:    appValues.String("token_key"),
		TokenMaxAge: appValues.Duration("token_max_age", 12*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		// Login lockout
		RateLimitEnabled:       appValues.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: appValues.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   appValues.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  appValues.Duration("rate_limit_login_lockout", 15*time.Minute),

		// Contact form
		ContactMinFillTime:   appValues.Duration("contact_min_fill_time", 3*time.Second),
		ContactRateWindow:    appValues.Duration("contact_rate_window", time.Minute),
		SubmissionBackend:    strings.ToLower(appValues.String("submission_backend")),
		SubmissionRetention:  appValues.Duration("submission_retention", 24*time.Hour),
		RedisURL:             appValues.String("redis_url"),
		ContactNotifyTo:      appValues.String("contact_notify_to"),
		TrustedProxies:       splitList(appValues.String("trusted_proxies")),
		SettingsRefreshEvery: appValues.Duration("settings_refresh_every", 30*time.Second),
		Timeouts: timeouts.Config{
			Ping:    appValues.Duration("timeout_ping", timeouts.DefaultPing),
			Query:   appValues.Duration("timeout_query", timeouts.DefaultQuery),
			Export:  appValues.Duration("timeout_export", timeouts.DefaultExport),
			Request: appValues.Duration("timeout_request", timeouts.DefaultRequest),
		},

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		// Email/SMTP
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL: appValues.String("base_url"),
		NATSURL: appValues.String("nats_url"),

		ActivityLogMode: strings.ToLower(appValues.String("activity_log_mode")),

		// Admin seeding
		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
		SeedAdminName:     appValues.String("seed_admin_name"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env == "prod", appCfg)
}

// validateApp holds the checks that do not need WAFFLE's core config.
func validateApp(prod bool, appCfg AppConfig) error {
	if !auditlog.ValidMode(appCfg.ActivityLogMode) {
		return fmt.Errorf("activity_log_mode must be all, db, log or off (got %q)", appCfg.ActivityLogMode)
	}
	switch appCfg.SubmissionBackend {
	case "mongo", "redis":
	default:
		return fmt.Errorf("submission_backend must be mongo or redis (got %q)", appCfg.SubmissionBackend)
	}
	if _, err := network.ParseProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}
	if prod {
		if len(appCfg.TokenKey) < 32 {
			return fmt.Errorf("token_key must be at least 32 characters in production")
		}
		if len(appCfg.CSRFKey) < 32 {
			return fmt.Errorf("csrf_key must be at least 32 characters in production")
		}
	}
	if appCfg.SeedAdminEmail != "" && appCfg.SeedAdminPassword == "" {
		return fmt.Errorf("seed_admin_password is required when seed_admin_email is set")
	}
	return nil
}

// splitList splits a comma-separated config value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
