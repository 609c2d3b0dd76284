package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestStore_SetGetPersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set(KeyToken, "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var tok string
	ok, err := reopened.Get(KeyToken, &tok)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if tok != "tok-1" {
		t.Errorf("token = %q, want tok-1", tok)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(leftovers) > 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName+".lock")); !os.IsNotExist(err) {
		t.Error("lock file left behind")
	}
}

func TestStore_GetMissing(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var v string
	ok, err := s.Get("nope", &v)
	if err != nil || ok {
		t.Errorf("Get(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestStore_Delete(t *testing.T) {
	dir := t.TempDir()
	s, _ := Open(dir)
	_ = s.Set(KeyConsent, true)
	if err := s.Delete(KeyConsent); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(KeyConsent); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	reopened, _ := Open(dir)
	var v bool
	if ok, _ := reopened.Get(KeyConsent, &v); ok {
		t.Error("deleted key still present after reopen")
	}
}

func TestOpen_CorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set("k", 1); err != nil {
		t.Fatalf("Set after corrupt load: %v", err)
	}
}

func TestStore_ConcurrentSet(t *testing.T) {
	s, _ := Open(t.TempDir())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Set(KeySubmissions, map[string]int{"n": i}); err != nil {
				t.Errorf("Set: %v", err)
			}
		}(i)
	}
	wg.Wait()
	var got map[string]int
	if ok, err := s.Get(KeySubmissions, &got); !ok || err != nil {
		t.Fatalf("Get = %v, %v", ok, err)
	}
}

func TestStore_TwoOpenersKeepEachOthersKeys(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(dir)
	if err != nil {
		t.Fatalf("Open a: %v", err)
	}
	b, err := Open(dir)
	if err != nil {
		t.Fatalf("Open b: %v", err)
	}

	if err := a.Set(KeyToken, "tok-a"); err != nil {
		t.Fatalf("a.Set: %v", err)
	}
	// b opened before a wrote; its write must not drop a's token.
	if err := b.SetConsent(true); err != nil {
		t.Fatalf("b.SetConsent: %v", err)
	}
	if err := a.RecordSubmission("contact", time.Unix(100, 0)); err != nil {
		t.Fatalf("a.RecordSubmission: %v", err)
	}
	if err := b.RecordSubmission("testimonial", time.Unix(200, 0)); err != nil {
		t.Fatalf("b.RecordSubmission: %v", err)
	}

	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open c: %v", err)
	}
	var tok string
	if ok, _ := c.Get(KeyToken, &tok); !ok || tok != "tok-a" {
		t.Errorf("token = %q (present %v), want tok-a", tok, ok)
	}
	if accepted, set := c.Consent(); !accepted || !set {
		t.Error("consent lost")
	}
	if got := c.LastSubmission("contact"); !got.Equal(time.Unix(100, 0)) {
		t.Errorf("contact = %v, want unix 100", got)
	}
	if got := c.LastSubmission("testimonial"); !got.Equal(time.Unix(200, 0)) {
		t.Errorf("testimonial = %v, want unix 200", got)
	}
}

func TestStore_ConcurrentOpenersInterleave(t *testing.T) {
	dir := t.TempDir()
	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := Open(dir)
			if err != nil {
				t.Errorf("Open: %v", err)
				return
			}
			if err := s.Set(fmt.Sprintf("key-%d", i), i); err != nil {
				t.Errorf("Set: %v", err)
			}
		}(i)
	}
	wg.Wait()

	s, _ := Open(dir)
	for i := 0; i < n; i++ {
		var v int
		if ok, _ := s.Get(fmt.Sprintf("key-%d", i), &v); !ok || v != i {
			t.Errorf("key-%d = %d (present %v)", i, v, ok)
		}
	}
}

func TestStore_StaleLockIsBroken(t *testing.T) {
	dir := t.TempDir()
	s, _ := Open(dir)
	lock := filepath.Join(dir, FileName+".lock")
	if err := os.WriteFile(lock, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(lock, old, old); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyToken, "t"); err != nil {
		t.Fatalf("Set with stale lock: %v", err)
	}
}

func TestStore_SubmissionTimes(t *testing.T) {
	s, _ := Open(t.TempDir())
	if !s.LastSubmission("contact").IsZero() {
		t.Fatal("expected zero time before any submission")
	}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := s.RecordSubmission("contact", at); err != nil {
		t.Fatalf("RecordSubmission: %v", err)
	}
	if got := s.LastSubmission("contact"); !got.Equal(at) {
		t.Errorf("LastSubmission = %v, want %v", got, at)
	}
	if !s.LastSubmission("other").IsZero() {
		t.Error("forms must be tracked separately")
	}
}

func TestStore_Consent(t *testing.T) {
	s, _ := Open(t.TempDir())
	if _, set := s.Consent(); set {
		t.Fatal("consent should be unset initially")
	}
	if err := s.SetConsent(true); err != nil {
		t.Fatalf("SetConsent: %v", err)
	}
	if accepted, set := s.Consent(); !accepted || !set {
		t.Errorf("Consent = %v, %v; want true, true", accepted, set)
	}
}
