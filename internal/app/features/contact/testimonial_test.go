package contact

import (
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/testimonials"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type testimonialHarness struct {
	h       *TestimonialHandler
	router  chi.Router
	tracker *memTracker
	clock   time.Time
}

func newTestimonialHarness(t *testing.T, store *testimonials.Store, tracker *memTracker) *testimonialHarness {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "ddsite-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	if tracker == nil {
		tracker = &memTracker{last: map[string]time.Time{}}
	}
	hs := &testimonialHarness{
		tracker: tracker,
		clock:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	hs.h = NewTestimonialHandler(TestimonialConfig{
		Testimonials: store,
		Tracker:      hs.tracker,
		Sessions:     sm,
		Pipeline:     formguard.NewPipeline(),
	}, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	hs.h.now = func() time.Time { return hs.clock }
	hs.router = chi.NewRouter()
	hs.h.Register(hs.router)
	return hs
}

func (hs *testimonialHarness) render(t *testing.T) (FormResponse, []*http.Cookie) {
	t.Helper()
	rec := testutil.NewRecorder()
	hs.router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/form"))
	rec.AssertStatus(t, http.StatusOK)
	var form FormResponse
	rec.DecodeJSON(t, &form)
	return form, rec.Result().Cookies()
}

func (hs *testimonialHarness) post(body map[string]any, cookies []*http.Cookie) *testutil.ResponseRecorder {
	req := testutil.NewJSONRequest(http.MethodPost, "/submit", body)
	req.RemoteAddr = "198.51.100.20:4444"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := testutil.NewRecorder()
	hs.router.ServeHTTP(rec, req)
	return rec
}

func validTestimonialBody(nonce string) map[string]any {
	return map[string]any{
		"name":         "Andreas Schmidt",
		"role_company": "Chief Legal Officer, AutoMotion Group",
		"location":     "Munich, Germany",
		"rating":       4,
		"experience":   "Every check came with a documented lawful basis.",
		"nonce":        nonce,
		"bot_field":    "",
	}
}

func TestTestimonialSubmit_StoresInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := testimonials.New(db)
	hs := newTestimonialHarness(t, store, nil)

	form, cookies := hs.render(t)
	hs.clock = hs.clock.Add(5 * time.Second)
	rec := hs.post(validTestimonialBody(form.Nonce), cookies)
	rec.AssertStatus(t, http.StatusCreated)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	all, err := store.List(ctx, crud.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("stored %d testimonials, want 1", len(all))
	}
	got := all[0]
	if got.IsActive {
		t.Error("public submissions must wait for approval")
	}
	if got.Role != "Chief Legal Officer" || got.Company != "AutoMotion Group" || got.Rating != 4 {
		t.Errorf("stored = %+v", got)
	}

	public, err := store.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic() error = %v", err)
	}
	if len(public) != 0 {
		t.Errorf("ListPublic() = %d items, want 0", len(public))
	}

	if hs.tracker.last[TestimonialFormName+"|198.51.100.20"].IsZero() {
		t.Error("submission time not recorded under the testimonial form")
	}

	// The next one inside the window is rate limited.
	form, cookies = hs.render(t)
	hs.clock = hs.clock.Add(20 * time.Second)
	rec = hs.post(validTestimonialBody(form.Nonce), cookies)
	rec.AssertStatus(t, http.StatusTooManyRequests)
	rec.AssertContains(t, "Please wait 40 seconds before submitting again.")
}

func TestTestimonialSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]any)
		wait   time.Duration
		status int
		want   string
	}{
		{"honeypot is silent", func(b map[string]any) { b["bot_field"] = "filled" }, 5 * time.Second, http.StatusAccepted, `"received"`},
		{"nonce mismatch", func(b map[string]any) { b["nonce"] = "forged" }, 5 * time.Second, http.StatusForbidden, formguard.MsgNonceMismatch},
		{"too fast", func(map[string]any) {}, time.Second, http.StatusBadRequest, formguard.MsgTooFast},
		{"missing location", func(b map[string]any) { b["location"] = "" }, 5 * time.Second, http.StatusBadRequest, "Location is required"},
		{"short experience", func(b map[string]any) { b["experience"] = "Good" }, 5 * time.Second, http.StatusBadRequest, "Please write at least 10 characters"},
		{"rating out of range", func(b map[string]any) { b["rating"] = 9 }, 5 * time.Second, http.StatusBadRequest, "Rating must be between 1 and 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := newTestimonialHarness(t, nil, nil)
			form, cookies := hs.render(t)
			hs.clock = hs.clock.Add(tt.wait)
			body := validTestimonialBody(form.Nonce)
			tt.mutate(body)

			rec := hs.post(body, cookies)
			rec.AssertStatus(t, tt.status)
			rec.AssertContains(t, tt.want)
			if len(hs.tracker.last) != 0 {
				t.Error("rejected submissions must not be recorded")
			}
		})
	}
}

func TestTestimonialSubmit_RateLimitIsPerForm(t *testing.T) {
	tracker := &memTracker{last: map[string]time.Time{}}
	hs := newTestimonialHarness(t, nil, tracker)

	// A recent contact submission does not block the testimonial form.
	tracker.last[FormName+"|198.51.100.20"] = hs.clock
	form, cookies := hs.render(t)
	hs.clock = hs.clock.Add(5 * time.Second)
	body := validTestimonialBody(form.Nonce)
	body["bot_field"] = "filled"
	rec := hs.post(body, cookies)
	rec.AssertStatus(t, http.StatusAccepted)

	// A recent testimonial submission does.
	tracker.last[TestimonialFormName+"|198.51.100.20"] = hs.clock
	form, cookies = hs.render(t)
	hs.clock = hs.clock.Add(5 * time.Second)
	rec = hs.post(validTestimonialBody(form.Nonce), cookies)
	rec.AssertStatus(t, http.StatusTooManyRequests)
}

func TestTestimonialSubmit_NoSession(t *testing.T) {
	hs := newTestimonialHarness(t, nil, nil)
	rec := hs.post(validTestimonialBody("anything"), nil)
	rec.AssertStatus(t, http.StatusForbidden)
}
