package services

import (
	"testing"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/testutil"
)

func TestNormalize_DefaultIcon(t *testing.T) {
	s := &models.Service{Title: "  Pre-employment screening ", Description: "d"}
	Normalize(s)
	if s.Icon != models.DefaultServiceIcon {
		t.Errorf("Icon = %q, want %q", s.Icon, models.DefaultServiceIcon)
	}
	if s.Title != "Pre-employment screening" {
		t.Errorf("Title = %q, want trimmed", s.Title)
	}
}

func TestStore_ListPublic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seed := []models.Service{
		{Title: "B", Description: "b", Order: 2, IsActive: true},
		{Title: "A", Description: "a", Order: 1, IsActive: true},
		{Title: "Hidden", Description: "h", Order: 0, IsActive: false},
	}
	for i := range seed {
		if err := store.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	pub, err := store.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic() error = %v", err)
	}
	if len(pub) != 2 || pub[0].Title != "A" || pub[1].Title != "B" {
		t.Errorf("ListPublic() = %+v, want [A B]", pub)
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 3 || all[0].Title != "Hidden" {
		t.Errorf("ListAll() first = %q, want Hidden (order 0)", all[0].Title)
	}
}
