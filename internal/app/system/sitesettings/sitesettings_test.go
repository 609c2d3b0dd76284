package sitesettings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.uber.org/zap"
)

type fakeLoader struct {
	s   models.SiteSettings
	err error
}

func (f *fakeLoader) LoadSite(context.Context) (models.SiteSettings, error) {
	return f.s, f.err
}

func TestResolver_FallsBack(t *testing.T) {
	src := &fakeLoader{err: errors.New("mongo down")}
	r := NewResolver(src, zap.NewNop())

	if got := r.Get(context.Background()); got.MaintenanceMode || r.Loaded() {
		t.Errorf("never loaded: got %+v, want defaults", got)
	}

	src.s, src.err = models.SiteSettings{SiteName: "Acme", MaintenanceMode: true, Version: 3}, nil
	if got := r.Get(context.Background()); got.SiteName != "Acme" || !got.MaintenanceMode {
		t.Errorf("Get() = %+v", got)
	}

	src.err = errors.New("mongo down again")
	if got := r.Get(context.Background()); got.SiteName != "Acme" || got.Version != 3 {
		t.Errorf("last known good lost: %+v", got)
	}
}

func TestResolver_SetIgnoresOlder(t *testing.T) {
	r := NewResolver(&fakeLoader{}, zap.NewNop())
	r.Set(models.SiteSettings{SiteName: "new", Version: 5})
	r.Set(models.SiteSettings{SiteName: "old", Version: 4})
	if r.Snapshot().SiteName != "new" {
		t.Errorf("snapshot = %+v", r.Snapshot())
	}
}

func TestResolver_RefreshTakesRestoredCopy(t *testing.T) {
	src := &fakeLoader{s: models.SiteSettings{MaintenanceMode: true, Version: 9}}
	r := NewResolver(src, zap.NewNop())
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !r.InMaintenance() {
		t.Fatal("expected maintenance after first load")
	}

	// The database was restored to an earlier backup.
	src.s = models.SiteSettings{MaintenanceMode: false, Version: 2}
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if r.InMaintenance() || r.Snapshot().Version != 2 {
		t.Errorf("snapshot after restore = %+v, want version 2 out of maintenance", r.Snapshot())
	}

	// A save after the restore still moves forward.
	r.Set(models.SiteSettings{MaintenanceMode: true, Version: 3})
	if !r.InMaintenance() {
		t.Error("Set(version 3) after restore was ignored")
	}
}

func TestMaintenance(t *testing.T) {
	r := NewResolver(&fakeLoader{}, zap.NewNop())
	r.Set(models.SiteSettings{MaintenanceMode: true, Email: "ops@example.com", Version: 1})

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Maintenance(r)(ok)

	tests := []struct {
		name   string
		method string
		path   string
		admin  bool
		want   int
	}{
		{"public list blocked", "GET", "/api/services", false, http.StatusServiceUnavailable},
		{"contact blocked", "POST", "/api/contact", false, http.StatusServiceUnavailable},
		{"health open", "GET", "/health", false, http.StatusOK},
		{"readyz open", "GET", "/readyz", false, http.StatusOK},
		{"login open", "POST", "/api/auth/login", false, http.StatusOK},
		{"settings read open", "GET", "/api/settings", false, http.StatusOK},
		{"settings write blocked", "PUT", "/api/settings", false, http.StatusServiceUnavailable},
		{"admin passes", "PUT", "/api/settings", true, http.StatusOK},
		{"admin reads public", "GET", "/api/services", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.admin {
				req = auth.WithTestUser(req, &auth.SessionUser{ID: "1", Role: "admin"})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusServiceUnavailable {
				var body map[string]any
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body["maintenance"] != true || body["contact"] != "ops@example.com" {
					t.Errorf("body = %v", body)
				}
			}
		})
	}
}

func TestMaintenance_Off(t *testing.T) {
	r := NewResolver(&fakeLoader{}, zap.NewNop())
	h := Maintenance(r)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/services", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want passthrough", rec.Code)
	}
}
