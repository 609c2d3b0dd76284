package activity

import (
	"errors"
	"testing"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/testutil"
)

func TestStore_Append(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e, err := store.Append(ctx, models.ActivityLog{Action: models.ActionCreate, Target: "service:1", Success: true})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if e.ID.IsZero() || e.Timestamp.IsZero() {
		t.Error("Append() should stamp id and timestamp")
	}
	if e.User != models.SystemUser {
		t.Errorf("User = %q, want %q", e.User, models.SystemUser)
	}

	if _, err := store.Append(ctx, models.ActivityLog{Action: "rename"}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("Append(rename) error = %v, want ErrInvalidAction", err)
	}
}

func TestStore_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entries := []models.ActivityLog{
		{User: "a@x.io", Action: models.ActionLogin, Success: true, Timestamp: base},
		{User: "a@x.io", Action: models.ActionUpdate, Target: "faq:1", Timestamp: base.Add(time.Minute)},
		{User: "b@x.io", Action: models.ActionLogin, Success: false, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if _, err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	all, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(all) != 3 || all[0].User != "b@x.io" {
		t.Errorf("Query() should return 3 entries newest first, got %+v", all)
	}

	logins, err := store.Query(ctx, QueryFilter{Action: models.ActionLogin, Limit: 1})
	if err != nil {
		t.Fatalf("Query(login) error = %v", err)
	}
	if len(logins) != 1 || logins[0].User != "b@x.io" {
		t.Errorf("Query(login, limit 1) = %+v", logins)
	}

	n, err := store.Count(ctx, QueryFilter{User: "a@x.io"})
	if err != nil || n != 2 {
		t.Errorf("Count(a@x.io) = %d, %v; want 2", n, err)
	}
}
