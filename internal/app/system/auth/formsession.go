package auth

import (
	"net/http"
	"time"
)

const (
	formNonceKey    = "nonce"
	formRenderedKey = "rendered_at"
)

func (sm *SessionManager) formSessionName(form string) string {
	return sm.name + "-form-" + form
}

// IssueFormNonce remembers nonce and the render time for form in a short-lived
// cookie session.
func (sm *SessionManager) IssueFormNonce(w http.ResponseWriter, r *http.Request, form, nonce string, renderedAt time.Time) error {
	sess, err := sm.store.Get(r, sm.formSessionName(form))
	if err != nil {
		sess, _ = sm.store.New(r, sm.formSessionName(form))
	}
	sess.Values[formNonceKey] = nonce
	sess.Values[formRenderedKey] = renderedAt.UnixMilli()
	return sess.Save(r, w)
}

// FormNonce returns the nonce and render time stored for form. Missing or
// unreadable sessions yield zero values.
func (sm *SessionManager) FormNonce(r *http.Request, form string) (string, time.Time) {
	sess, err := sm.store.Get(r, sm.formSessionName(form))
	if err != nil {
		return "", time.Time{}
	}
	var rendered time.Time
	if ms, ok := sess.Values[formRenderedKey].(int64); ok && ms > 0 {
		rendered = time.UnixMilli(ms)
	}
	return getString(sess, formNonceKey), rendered
}

// ClearFormNonce drops the nonce so it cannot be replayed.
func (sm *SessionManager) ClearFormNonce(w http.ResponseWriter, r *http.Request, form string) {
	sess, err := sm.store.Get(r, sm.formSessionName(form))
	if err != nil {
		return
	}
	delete(sess.Values, formNonceKey)
	delete(sess.Values, formRenderedKey)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}
