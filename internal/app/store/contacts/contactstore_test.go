package contacts

import (
	"errors"
	"testing"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/testutil"
)

func submit(t *testing.T, s *Store, name string) *models.ContactSubmission {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	sub := &models.ContactSubmission{Name: name, Email: "a@b.co", Message: "Please call me back."}
	if err := s.Submit(ctx, sub); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return sub
}

func TestStore_SubmitDefaultsToNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	sub := submit(t, store, "Ann")
	if sub.Status != models.ContactStatusNew {
		t.Errorf("Status = %q, want new", sub.Status)
	}
}

func TestStore_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub := submit(t, store, "Ann")
	got, err := store.MarkRead(ctx, sub.ID.Hex())
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if got.Status != models.ContactStatusRead || got.Revision != 2 {
		t.Errorf("MarkRead() = status %q rev %d, want read rev 2", got.Status, got.Revision)
	}

	// Already read: no further write.
	again, err := store.MarkRead(ctx, sub.ID.Hex())
	if err != nil {
		t.Fatalf("second MarkRead() error = %v", err)
	}
	if again.Revision != 2 {
		t.Errorf("second MarkRead() revision = %d, want 2", again.Revision)
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub := submit(t, store, "Ann")
	if _, err := store.SetStatus(ctx, sub.ID.Hex(), sub.Revision, "spam", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("SetStatus(spam) error = %v, want ErrInvalidStatus", err)
	}
	got, err := store.SetStatus(ctx, sub.ID.Hex(), sub.Revision, models.ContactStatusReplied, "called back")
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if got.Status != models.ContactStatusReplied || got.Notes != "called back" {
		t.Errorf("SetStatus() = %+v", got)
	}
}

func TestStore_ListByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := submit(t, store, "Ann")
	submit(t, store, "Bob")
	if _, err := store.MarkRead(ctx, a.ID.Hex()); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	fresh, err := store.ListByStatus(ctx, models.ContactStatusNew, 0, 0)
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if len(fresh) != 1 || fresh[0].Name != "Bob" {
		t.Errorf("ListByStatus(new) = %+v, want only Bob", fresh)
	}
	n, err := store.CountNew(ctx)
	if err != nil || n != 1 {
		t.Errorf("CountNew() = %d, %v; want 1", n, err)
	}
	if _, err := store.ListByStatus(ctx, "bogus", 0, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ListByStatus(bogus) error = %v", err)
	}
}
