package ratelimit

import (
	"testing"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/testutil"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time            { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	s := New(db, 3, 15*time.Minute, 10*time.Minute)
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s.now = c.now
	return s, c
}

func TestStore_CheckAllowed_NoRecord(t *testing.T) {
	s, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st := s.CheckAllowed(ctx, "new@example.com")
	if !st.Allowed || st.Remaining != 3 || st.LockedUntil != nil {
		t.Errorf("CheckAllowed() = %+v, want allowed with 3 remaining", st)
	}
}

func TestStore_RecordFailure_LocksOut(t *testing.T) {
	s, c := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if locked, _ := s.RecordFailure(ctx, "a@example.com"); locked {
			t.Fatalf("failure %d should not lock", i+1)
		}
	}
	if st := s.CheckAllowed(ctx, "A@Example.com"); st.Remaining != 1 {
		t.Errorf("Remaining = %d, want 1 (case-insensitive key)", st.Remaining)
	}

	locked, until := s.RecordFailure(ctx, "a@example.com")
	if !locked || until == nil {
		t.Fatal("third failure should lock")
	}
	st := s.CheckAllowed(ctx, "a@example.com")
	if st.Allowed || st.Remaining != -1 {
		t.Errorf("CheckAllowed() while locked = %+v", st)
	}
	if got := st.RetryAfter(c.t); got != 10*time.Minute {
		t.Errorf("RetryAfter() = %v, want 10m", got)
	}

	c.advance(11 * time.Minute)
	if st := s.CheckAllowed(ctx, "a@example.com"); !st.Allowed {
		t.Errorf("CheckAllowed() after lockout = %+v, want allowed", st)
	}
	if locked, _ := s.RecordFailure(ctx, "a@example.com"); locked {
		t.Error("first failure after lockout should start a fresh count")
	}
}

func TestStore_WindowExpiry_ResetsCounter(t *testing.T) {
	s, c := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s.RecordFailure(ctx, "w@example.com")
	s.RecordFailure(ctx, "w@example.com")
	c.advance(16 * time.Minute)

	if st := s.CheckAllowed(ctx, "w@example.com"); st.Remaining != 3 {
		t.Errorf("Remaining after window = %d, want 3", st.Remaining)
	}
	s.RecordFailure(ctx, "w@example.com")
	a, err := s.GetAttempt(ctx, "w@example.com")
	if err != nil || a == nil {
		t.Fatalf("GetAttempt() = %v, %v", a, err)
	}
	if a.AttemptCount != 1 {
		t.Errorf("AttemptCount = %d, want 1", a.AttemptCount)
	}
}

func TestStore_ClearOnSuccess(t *testing.T) {
	s, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s.RecordFailure(ctx, "c@example.com")
	if err := s.ClearOnSuccess(ctx, "C@example.com"); err != nil {
		t.Fatalf("ClearOnSuccess() error = %v", err)
	}
	a, err := s.GetAttempt(ctx, "c@example.com")
	if err != nil || a != nil {
		t.Errorf("GetAttempt() after clear = %+v, %v; want nil", a, err)
	}
}
