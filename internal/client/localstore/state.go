// internal/client/localstore/state.go
package localstore

import (
	"encoding/json"
	"time"
)

// LastSubmission returns when form was last submitted from this machine,
// or the zero time.
func (s *Store) LastSubmission(form string) time.Time {
	var m map[string]time.Time
	if ok, err := s.Get(KeySubmissions, &m); !ok || err != nil {
		return time.Time{}
	}
	return m[form]
}

// RecordSubmission stores at as form's last submission time. Other forms'
// times, including ones recorded by another process, are kept.
func (s *Store) RecordSubmission(form string, at time.Time) error {
	var encodeErr error
	err := s.mutate(func(d map[string]json.RawMessage) bool {
		m := map[string]time.Time{}
		if raw, ok := d[KeySubmissions]; ok {
			_ = json.Unmarshal(raw, &m)
			if m == nil {
				m = map[string]time.Time{}
			}
		}
		m[form] = at.UTC()
		raw, err := json.Marshal(m)
		if err != nil {
			encodeErr = err
			return false
		}
		d[KeySubmissions] = raw
		return true
	})
	if err != nil {
		return err
	}
	return encodeErr
}

// Consent reports the stored cookie-consent answer. set is false when the
// user has not answered yet.
func (s *Store) Consent() (accepted, set bool) {
	var v bool
	ok, err := s.Get(KeyConsent, &v)
	if err != nil || !ok {
		return false, false
	}
	return v, true
}

// SetConsent records the cookie-consent answer.
func (s *Store) SetConsent(accepted bool) error {
	return s.Set(KeyConsent, accepted)
}
