// Package settings is the admin client's view of the site settings. Reads
// never fail: the server copy is preferred and cached, and the cache (or
// the defaults) answers when the server cannot be reached. Edits made while
// offline are kept as pending and are discarded when a later read shows
// the server's copy, which always wins.
package settings

import (
	"context"
	"errors"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client/localstore"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.uber.org/zap"
)

// Remote is the server side. *client.Client implements it.
type Remote interface {
	GetSettings(ctx context.Context) (models.SiteSettings, error)
	UpdateSettings(ctx context.Context, s models.SiteSettings) (models.SiteSettings, error)
}

// Cache is durable key/value storage. *localstore.Store implements it.
type Cache interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
}

// Entry is what the cache holds.
type Entry struct {
	Settings  models.SiteSettings `json:"settings"`
	Version   int64               `json:"version"`
	FetchedAt time.Time           `json:"fetched_at"`
	Pending   bool                `json:"pending"`
}

// Source says where a Get answer came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceCache    Source = "cache"
	SourceDefaults Source = "defaults"
)

// Store combines the remote and the cache.
type Store struct {
	remote Remote
	cache  Cache
	logger *zap.Logger
	now    func() time.Time

	// Reconciled, when set, is called after a pending local edit was
	// dropped in favour of the server copy.
	Reconciled func(discarded, current models.SiteSettings)
}

// New returns a Store. logger may be nil.
func New(remote Remote, cache Cache, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{remote: remote, cache: cache, logger: logger, now: time.Now}
}

// Get returns the settings. It never fails.
func (s *Store) Get(ctx context.Context) models.SiteSettings {
	got, _ := s.Resolve(ctx)
	return got
}

// Resolve is Get that also reports where the answer came from.
func (s *Store) Resolve(ctx context.Context) (models.SiteSettings, Source) {
	remote, err := s.remote.GetSettings(ctx)
	if err == nil {
		s.reconcile(remote)
		return remote, SourceRemote
	}
	s.logger.Debug("settings fetch failed, using cache", zap.Error(err))

	if e, ok := s.Cached(); ok {
		return e.Settings, SourceCache
	}
	return models.DefaultSiteSettings(), SourceDefaults
}

// reconcile stores the server copy, dropping any pending edit.
func (s *Store) reconcile(remote models.SiteSettings) {
	prev, had := s.Cached()
	if err := s.write(Entry{Settings: remote, Version: remote.Version, FetchedAt: s.now().UTC()}); err != nil {
		s.logger.Warn("settings cache write failed", zap.Error(err))
		return
	}
	if had && prev.Pending {
		s.logger.Warn("discarded offline settings edit; server copy wins",
			zap.Int64("local_version", prev.Version),
			zap.Int64("server_version", remote.Version))
		if s.Reconciled != nil {
			s.Reconciled(prev.Settings, remote)
		}
	}
}

// Update saves in on the server. When the server is unreachable the edit
// is cached as pending and Update returns nil. Every other failure,
// including a revision conflict, is returned.
func (s *Store) Update(ctx context.Context, in models.SiteSettings) error {
	saved, err := s.remote.UpdateSettings(ctx, in)
	switch {
	case err == nil:
		if werr := s.write(Entry{Settings: saved, Version: saved.Version, FetchedAt: s.now().UTC()}); werr != nil {
			s.logger.Warn("settings cache write failed", zap.Error(werr))
		}
		return nil
	case errors.Is(err, client.ErrNetwork):
		s.logger.Info("server unreachable, settings edit kept locally", zap.Error(err))
		return s.write(Entry{Settings: in, Version: in.Version, FetchedAt: s.now().UTC(), Pending: true})
	default:
		return err
	}
}

// Cached returns the cache entry, if any.
func (s *Store) Cached() (Entry, bool) {
	var e Entry
	ok, err := s.cache.Get(localstore.KeySettings, &e)
	if err != nil {
		s.logger.Warn("settings cache unreadable", zap.Error(err))
		return Entry{}, false
	}
	return e, ok
}

func (s *Store) write(e Entry) error {
	return s.cache.Set(localstore.KeySettings, e)
}
