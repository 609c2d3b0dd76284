// Package sitesettings serves the SiteSettings singleton to the request path
// and gates public routes while maintenance mode is on.
package sitesettings

import (
	"context"
	"sync"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.uber.org/zap"
)

// Loader reads the stored settings. *settingsstore.Store implements it.
type Loader interface {
	LoadSite(ctx context.Context) (models.SiteSettings, error)
}

// Resolver keeps the last settings it loaded successfully. Reads never fail:
// when the store is unreachable they fall back to that snapshot, or to
// DefaultSiteSettings if nothing was ever loaded.
type Resolver struct {
	src    Loader
	logger *zap.Logger

	mu   sync.RWMutex
	snap models.SiteSettings
	have bool
}

// NewResolver creates a Resolver over src. Call Refresh once at startup.
func NewResolver(src Loader, logger *zap.Logger) *Resolver {
	return &Resolver{src: src, logger: logger, snap: models.DefaultSiteSettings()}
}

// Get loads fresh settings, updating the snapshot, and falls back to the
// snapshot on error.
func (r *Resolver) Get(ctx context.Context) models.SiteSettings {
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("site settings unavailable, serving last known good", zap.Error(err))
	}
	return r.Snapshot()
}

// Snapshot returns the last known good settings without I/O.
func (r *Resolver) Snapshot() models.SiteSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Loaded reports whether any load has succeeded yet.
func (r *Resolver) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.have
}

// Refresh reloads the snapshot from the store. The stored document is
// authoritative: it replaces the snapshot even when its version is lower,
// as after a database restore.
func (r *Resolver) Refresh(ctx context.Context) error {
	s, err := r.src.LoadSite(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replace(s)
	return nil
}

// Set replaces the snapshot right after a successful save. Older versions
// never replace newer ones, so a slow save cannot undo a later one.
func (r *Resolver) Set(s models.SiteSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.have && s.Version < r.snap.Version {
		return
	}
	r.replace(s)
}

// replace must be called with mu held.
func (r *Resolver) replace(s models.SiteSettings) {
	if r.have && s.Version < r.snap.Version {
		r.logger.Info("site settings version went backwards, taking stored copy",
			zap.Int64("cached", r.snap.Version), zap.Int64("stored", s.Version))
	}
	r.snap = s
	r.have = true
}

// InMaintenance reports the snapshot's maintenance flag.
func (r *Resolver) InMaintenance() bool {
	return r.Snapshot().MaintenanceMode
}
