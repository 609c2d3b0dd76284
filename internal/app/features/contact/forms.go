package contact

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/submissions"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/idgen"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// publicForm holds what every guarded public form shares: its nonce session,
// its submission tracker key and the rejection responses.
type publicForm struct {
	name     string
	sessions *auth.SessionManager
	tracker  submissions.Tracker
	pipeline formguard.Pipeline
	logger   *zap.Logger
}

// issue stores a fresh nonce and render time for the form.
func (f publicForm) issue(w http.ResponseWriter, r *http.Request, now time.Time) (FormResponse, error) {
	nonce, err := idgen.Nonce()
	if err != nil {
		return FormResponse{}, err
	}
	if err := f.sessions.IssueFormNonce(w, r, f.name, nonce, now); err != nil {
		return FormResponse{}, err
	}
	min := f.pipeline.Guard.MinFillTime
	if min <= 0 {
		min = formguard.DefaultMinFillTime
	}
	return FormResponse{Nonce: nonce, RenderedAt: now, MinFillMS: min.Milliseconds()}, nil
}

// session returns what was remembered when the form was rendered.
func (f publicForm) session(r *http.Request) formguard.Session {
	nonce, rendered := f.sessions.FormNonce(r, f.name)
	return formguard.Session{Nonce: nonce, RenderedAt: rendered}
}

// last returns the client's previous submission time. Tracker errors fail open.
func (f publicForm) last(ctx context.Context, ip string) time.Time {
	last, err := f.tracker.Last(ctx, f.name, ip)
	if err != nil {
		f.logger.Warn("submission tracker unavailable",
			zap.String("form", f.name), zap.Error(err), zap.String("ip", ip))
		return time.Time{}
	}
	return last
}

// accepted records the submission time and burns the nonce.
func (f publicForm) accepted(w http.ResponseWriter, r *http.Request, ip string, now time.Time) {
	if err := f.tracker.Record(r.Context(), f.name, ip, now); err != nil {
		f.logger.Warn("failed to record submission time",
			zap.String("form", f.name), zap.Error(err), zap.String("ip", ip))
	}
	f.sessions.ClearFormNonce(w, r, f.name)
}

// reject maps a pipeline failure to its response.
func (f publicForm) reject(w http.ResponseWriter, r *http.Request, ip string, err error) {
	var ve *formguard.ValidationError
	var rl *formguard.RateLimitError
	switch {
	case errors.As(err, &ve):
		jsonutil.ValidationError(w, ve.Fields)
	case formguard.IsSilent(err):
		// Answer like a success; nothing is stored.
		f.logger.Info("form submission dropped",
			zap.String("form", f.name), zap.String("ip", ip), zap.String("reason", err.Error()))
		f.sessions.ClearFormNonce(w, r, f.name)
		jsonutil.Accepted(w, map[string]string{"status": "received"})
	case errors.As(err, &rl):
		jsonutil.TooManyRequests(w, rl.Error(), rl.Seconds())
	default:
		key, msg, _ := formguard.Banner(err)
		f.logger.Info("form submission rejected",
			zap.String("form", f.name), zap.String("ip", ip), zap.String("reason", key))
		status := http.StatusBadRequest
		if key == formguard.KeyCSRF {
			status = http.StatusForbidden
		}
		jsonutil.Coded(w, status, key, msg)
	}
}
