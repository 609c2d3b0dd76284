// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Refresher reloads a cached value. *sitesettings.Resolver implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Purger deletes records older than cutoff. *submissions.MongoTracker implements it.
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// SettingsRefreshJob reloads the site settings snapshot so maintenance mode
// toggled by another instance takes effect here.
func SettingsRefreshJob(r Refresher, interval time.Duration) Job {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return Job{
		Name:     "settings-refresh",
		Interval: interval,
		Run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, timeouts.Query())
			defer cancel()
			return r.Refresh(ctx)
		},
	}
}

// SubmissionPurgeJob removes per-client form submission timestamps older
// than retention. The TTL index covers the same ground on servers that run
// the TTL monitor; this job keeps the collection small where it does not.
func SubmissionPurgeJob(p Purger, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "submission-purge",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			n, err := p.Purge(ctx, time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("purged stale form submission records", zap.Int64("deleted", n))
			}
			return nil
		},
	}
}
