// Package localstore is the admin client's durable key/value state: the
// admin token, the settings cache, per-form submission timestamps and the
// cookie-consent flag. Everything lives in one JSON file that is rewritten
// atomically on every change. Several CLI processes may share the file:
// each write re-reads it under a lock file and changes only its own keys.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Well-known keys.
const (
	KeyToken       = "admin_token"
	KeySettings    = "settings_cache"
	KeySubmissions = "form_submissions"
	KeyConsent     = "cookie_consent"
)

// FileName is the state file inside the state directory.
const FileName = "state.json"

const (
	lockWait  = 5 * time.Second
	lockPoll  = 10 * time.Millisecond
	staleLock = 30 * time.Second
)

// Store is safe for concurrent use.
type Store struct {
	path string

	mu   sync.Mutex
	data map[string]json.RawMessage
}

// Open loads (or creates) the state file in dir. A corrupt
// file is treated as empty and replaced on the next write.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	s := &Store{path: filepath.Join(dir, FileName)}
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	s.data = data
	return s, nil
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Get decodes the value stored under key into v. It reports false when the
// key is absent.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores v under key and persists the file.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.mutate(func(d map[string]json.RawMessage) bool {
		d[key] = raw
		return true
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.mutate(func(d map[string]json.RawMessage) bool {
		if _, ok := d[key]; !ok {
			return false
		}
		delete(d, key)
		return true
	})
}

// mutate applies change to the current on-disk state while holding the
// state file lock, then writes the result back. Keys written by other
// processes since Open are kept. change reports whether anything changed.
func (s *Store) mutate(change func(map[string]json.RawMessage) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if change(data) {
		if err := s.flush(data); err != nil {
			return err
		}
	}
	s.data = data
	return nil
}

// read loads the state file. A missing or corrupt file is empty.
func (s *Store) read() (map[string]json.RawMessage, error) {
	data := map[string]json.RawMessage{}
	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read state: %w", err)
	default:
		if err := json.Unmarshal(raw, &data); err != nil || data == nil {
			data = map[string]json.RawMessage{}
		}
	}
	return data, nil
}

// lock takes the state file lock, a sibling file created exclusively. A lock
// older than staleLock is assumed to belong to a crashed process and removed.
func (s *Store) lock() (func(), error) {
	path := s.path + ".lock"
	deadline := time.Now().Add(lockWait)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("lock state: %w", err)
		}
		if fi, serr := os.Stat(path); serr == nil && time.Since(fi.ModTime()) > staleLock {
			os.Remove(path)
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("lock state: %s is held by another process", path)
		}
		time.Sleep(lockPoll)
	}
}

// flush writes a temp file and renames it over the state file, so readers
// see either the old or the new contents. Caller holds the lock.
func (s *Store) flush(data map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	name := tmp.Name()
	_, werr := tmp.Write(b)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(name, 0o600)
	}
	if werr != nil {
		os.Remove(name)
		return fmt.Errorf("write state: %w", werr)
	}
	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
