// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	settingsstore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/settings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/submissions"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/network"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/sitesettings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/tasks"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It applies the configured operation deadlines, loads the site settings snapshot used by the maintenance gate and the
// contact form and starts the background task runner.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(appCfg.Timeouts)
	if err := network.SetTrustedProxies(appCfg.TrustedProxies); err != nil {
		return err
	}

	res := siteResolver(settingsstore.New(deps.MongoDatabase), logger)

	// A missing settings document is not fatal; the resolver serves defaults
	// until the first successful refresh.
	if err := res.Refresh(ctx); err != nil {
		logger.Warn("initial site settings load failed", zap.Error(err))
	}

	startTaskRunner(appCfg, deps, res, logger)
	return nil
}

// resolver is shared by Startup, the task runner and BuildHandler.
var resolver *sitesettings.Resolver

// siteResolver returns the process-wide settings resolver, creating it on
// first use.
func siteResolver(src sitesettings.Loader, logger *zap.Logger) *sitesettings.Resolver {
	if resolver == nil {
		resolver = sitesettings.NewResolver(src, logger)
	}
	return resolver
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(appCfg AppConfig, deps DBDeps, res *sitesettings.Resolver, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	taskRunner.Register(tasks.SettingsRefreshJob(res, appCfg.SettingsRefreshEvery))

	// Redis expires submission keys itself.
	if purger, ok := deps.Submissions.(*submissions.MongoTracker); ok {
		taskRunner.Register(tasks.SubmissionPurgeJob(purger, appCfg.SubmissionRetention, logger))
	}

	taskRunner.Start()
}
