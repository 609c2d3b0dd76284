// internal/app/features/activity/handler.go
package activity

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/activity"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.uber.org/zap"
)

// MaxLimit caps one page of the activity log.
const MaxLimit = 500

// Handler serves the admin activity log.
type Handler struct {
	Activity *activity.Store
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger
}

// NewHandler creates a new activity Handler.
func NewHandler(activityStore *activity.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Activity: activityStore,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type listResponse struct {
	Items []models.ActivityLog `json:"items"`
	Total int64                `json:"total"`
	Limit int64                `json:"limit"`
	Page  int64                `json:"page"`
}

// parseFilter reads ?action, ?user, ?start, ?end, ?limit and ?page. Dates are
// YYYY-MM-DD in UTC; end covers the whole day. It returns field errors for
// values that cannot be used.
func parseFilter(r *http.Request) (activity.QueryFilter, int64, map[string]string) {
	q := r.URL.Query()
	var f activity.QueryFilter
	errs := map[string]string{}

	if a := strings.ToLower(strings.TrimSpace(q.Get("action"))); a != "" {
		if !models.IsValidAction(a) {
			errs["action"] = "Unknown action."
		}
		f.Action = a
	}
	f.User = strings.ToLower(strings.TrimSpace(q.Get("user")))

	if s := q.Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			errs["start"] = "Use YYYY-MM-DD."
		} else {
			f.StartTime = &t
		}
	}
	if e := q.Get("end"); e != "" {
		t, err := time.Parse("2006-01-02", e)
		if err != nil {
			errs["end"] = "Use YYYY-MM-DD."
		} else {
			t = t.Add(24*time.Hour - time.Nanosecond)
			f.EndTime = &t
		}
	}

	f.Limit = activity.DefaultLimit
	if v, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && v > 0 {
		f.Limit = min(v, MaxLimit)
	}
	page := int64(1)
	if v, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil && v > 1 {
		page = v
	}
	f.Offset = (page - 1) * f.Limit

	if len(errs) > 0 {
		return f, page, errs
	}
	return f, page, nil
}

// list returns entries newest first with the total matching count.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, page, errs := parseFilter(r)
	if errs != nil {
		jsonutil.ValidationError(w, errs)
		return
	}

	items, err := h.Activity.Query(r.Context(), f)
	if err != nil {
		h.ErrLog.Log(r, "failed to query activity log", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	total, err := h.Activity.Count(r.Context(), f)
	if err != nil {
		h.ErrLog.Log(r, "failed to count activity log", err)
		jsonutil.InternalError(w, "internal error")
		return
	}

	jsonutil.OK(w, listResponse{Items: items, Total: total, Limit: f.Limit, Page: page})
}
