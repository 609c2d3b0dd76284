package settings

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client/localstore"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
)

type fakeRemote struct {
	settings models.SiteSettings
	down     bool
	conflict bool
}

func (f *fakeRemote) GetSettings(context.Context) (models.SiteSettings, error) {
	if f.down {
		return models.SiteSettings{}, fmt.Errorf("%w: dial tcp: refused", client.ErrNetwork)
	}
	return f.settings, nil
}

func (f *fakeRemote) UpdateSettings(_ context.Context, s models.SiteSettings) (models.SiteSettings, error) {
	if f.down {
		return models.SiteSettings{}, fmt.Errorf("%w: dial tcp: refused", client.ErrNetwork)
	}
	if f.conflict || s.Version != f.settings.Version {
		return models.SiteSettings{}, &client.ConflictError{}
	}
	s.Version++
	f.settings = s
	return s, nil
}

func newStore(t *testing.T, r *fakeRemote) *Store {
	t.Helper()
	cache, err := localstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("localstore.Open: %v", err)
	}
	return New(r, cache, nil)
}

func TestGet_RemoteThenCache(t *testing.T) {
	r := &fakeRemote{settings: models.SiteSettings{SiteName: "Acme", MaintenanceMode: true, Version: 2}}
	s := newStore(t, r)

	got, src := s.Resolve(context.Background())
	if src != SourceRemote || got.SiteName != "Acme" {
		t.Fatalf("Resolve = %+v, %s", got, src)
	}

	r.down = true
	got, src = s.Resolve(context.Background())
	if src != SourceCache || got.SiteName != "Acme" || !got.MaintenanceMode {
		t.Errorf("offline Resolve = %+v, %s; want cached copy", got, src)
	}
}

func TestGet_DefaultsWhenNothingCached(t *testing.T) {
	s := newStore(t, &fakeRemote{down: true})
	got, src := s.Resolve(context.Background())
	if src != SourceDefaults || got.MaintenanceMode {
		t.Errorf("Resolve = %+v, %s; want defaults", got, src)
	}
}

func TestUpdate_OfflineIsPendingAndRemoteWins(t *testing.T) {
	r := &fakeRemote{settings: models.SiteSettings{SiteName: "Server", Version: 1}}
	s := newStore(t, r)
	ctx := context.Background()
	_ = s.Get(ctx)

	r.down = true
	if err := s.Update(ctx, models.SiteSettings{SiteName: "Local edit", Version: 1}); err != nil {
		t.Fatalf("offline Update = %v, want nil", err)
	}
	e, ok := s.Cached()
	if !ok || !e.Pending || e.Settings.SiteName != "Local edit" {
		t.Fatalf("cache = %+v, %v; want pending local edit", e, ok)
	}
	if got := s.Get(ctx); got.SiteName != "Local edit" {
		t.Errorf("offline Get = %q, want the pending edit", got.SiteName)
	}

	var discarded models.SiteSettings
	s.Reconciled = func(d, _ models.SiteSettings) { discarded = d }
	r.down = false
	r.settings = models.SiteSettings{SiteName: "Changed elsewhere", Version: 2}

	got := s.Get(ctx)
	if got.SiteName != "Changed elsewhere" {
		t.Errorf("Get after reconnect = %q, want server copy", got.SiteName)
	}
	if discarded.SiteName != "Local edit" {
		t.Errorf("Reconciled got %q, want the discarded edit", discarded.SiteName)
	}
	if e, _ := s.Cached(); e.Pending || e.Version != 2 {
		t.Errorf("cache after reconcile = %+v", e)
	}
}

func TestUpdate_ConflictReturned(t *testing.T) {
	r := &fakeRemote{settings: models.SiteSettings{Version: 5}}
	s := newStore(t, r)
	err := s.Update(context.Background(), models.SiteSettings{Version: 4})
	var ce *client.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Update = %v, want ConflictError", err)
	}
	if _, ok := s.Cached(); ok {
		t.Error("a rejected edit must not be cached")
	}
}

func TestUpdate_SuccessCaches(t *testing.T) {
	r := &fakeRemote{settings: models.SiteSettings{Version: 1}}
	s := newStore(t, r)
	if err := s.Update(context.Background(), models.SiteSettings{SiteName: "New", Version: 1}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	e, ok := s.Cached()
	if !ok || e.Pending || e.Version != 2 || e.Settings.SiteName != "New" {
		t.Errorf("cache = %+v, %v", e, ok)
	}
}
