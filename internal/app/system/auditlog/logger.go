// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/events"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/network"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.uber.org/zap"
)

// Modes select where entries go.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether m is a known mode.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Appender persists activity entries. *activity.Store implements it.
type Appender interface {
	Append(ctx context.Context, entry models.ActivityLog) (models.ActivityLog, error)
}

// Logger records admin and system activity.
type Logger struct {
	store  Appender
	zapLog *zap.Logger
	mode   string
	pub    events.Publisher
	now    func() time.Time
}

// New creates a Logger. An unknown mode behaves like ModeAll; pub may be nil.
func New(store Appender, zapLog *zap.Logger, mode string, pub events.Publisher) *Logger {
	if !ValidMode(mode) {
		mode = ModeAll
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		mode:   mode,
		pub:    pub,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *Logger) logToZap(e models.ActivityLog) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("user", e.User),
		zap.String("action", e.Action),
		zap.String("target", e.Target),
		zap.Bool("success", e.Success),
		zap.String("ip", e.IP),
	}
	if e.Details != "" {
		fields = append(fields, zap.String("details", e.Details))
	}
	if e.Success {
		l.zapLog.Info("activity", fields...)
	} else {
		l.zapLog.Warn("activity", fields...)
	}
}

// Log records e according to the configured mode. A nil Logger is a no-op,
// so handlers under test may leave it unset. Storage failures are logged and
// never returned.
func (l *Logger) Log(ctx context.Context, e models.ActivityLog) {
	if l == nil || l.mode == ModeOff {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	if e.User == "" {
		e.User = models.SystemUser
	}

	if l.mode == ModeAll || l.mode == ModeLog {
		l.logToZap(e)
	}
	if (l.mode == ModeAll || l.mode == ModeDB) && l.store != nil {
		saved, err := l.store.Append(ctx, e)
		if err != nil {
			l.zapLog.Error("failed to store activity entry",
				zap.Error(err),
				zap.String("action", e.Action),
				zap.String("target", e.Target))
		} else {
			e = saved
		}
	}
	events.Emit(ctx, l.pub, l.zapLog, events.SubjectActivityAppended, e)
}

// Target formats an entity reference such as "service:65f0...".
func Target(kind, id string) string {
	if id == "" {
		return kind
	}
	return fmt.Sprintf("%s:%s", kind, id)
}

func (l *Logger) fromRequest(r *http.Request, action, target, details string, success bool) {
	l.Log(r.Context(), models.ActivityLog{
		User:    auth.ActorEmail(r),
		Action:  action,
		Target:  target,
		Details: details,
		IP:      network.ClientIP(r),
		Success: success,
	})
}

// Created records a successful create of kind/id.
func (l *Logger) Created(r *http.Request, kind, id, details string) {
	l.fromRequest(r, models.ActionCreate, Target(kind, id), details, true)
}

// Updated records a successful update of kind/id.
func (l *Logger) Updated(r *http.Request, kind, id, details string) {
	l.fromRequest(r, models.ActionUpdate, Target(kind, id), details, true)
}

// Deleted records a successful delete of kind/id.
func (l *Logger) Deleted(r *http.Request, kind, id, details string) {
	l.fromRequest(r, models.ActionDelete, Target(kind, id), details, true)
}

// LoginSucceeded records a successful admin login.
func (l *Logger) LoginSucceeded(r *http.Request, email string) {
	if l == nil {
		return
	}
	l.Log(r.Context(), models.ActivityLog{
		User:    email,
		Action:  models.ActionLogin,
		Target:  "admin",
		IP:      network.ClientIP(r),
		Success: true,
	})
}

// LoginFailed records a rejected login attempt with the reason.
func (l *Logger) LoginFailed(r *http.Request, email, reason string) {
	if l == nil {
		return
	}
	l.Log(r.Context(), models.ActivityLog{
		User:    email,
		Action:  models.ActionLogin,
		Target:  "admin",
		Details: reason,
		IP:      network.ClientIP(r),
		Success: false,
	})
}

// System records an action taken by the server itself (seeding, jobs).
func (l *Logger) System(ctx context.Context, target, details string) {
	l.Log(ctx, models.ActivityLog{
		User:    models.SystemUser,
		Action:  models.ActionSystem,
		Target:  target,
		Details: details,
		Success: true,
	})
}
