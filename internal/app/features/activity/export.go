// internal/app/features/activity/export.go
package activity

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// exportLimit bounds a single CSV download.
const exportLimit = 10000

// ServeCSV exports the filtered activity log as CSV. ?limit and ?page are
// ignored; the export covers up to exportLimit newest entries.
func (h *Handler) ServeCSV(w http.ResponseWriter, r *http.Request) {
	f, _, errs := parseFilter(r)
	if errs != nil {
		jsonutil.ValidationError(w, errs)
		return
	}
	f.Limit, f.Offset = exportLimit, 0

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Export(), h.Log, "activity csv export")
	defer cancel()
	rows, err := h.Activity.Query(ctx, f)
	if err != nil {
		h.ErrLog.Log(r, "fetch activity for export failed", err)
		jsonutil.InternalError(w, "internal error")
		return
	}

	filename := fmt.Sprintf("activity_%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	// UTF-8 BOM for Excel
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		h.Log.Error("CSV write failed (BOM)", zap.Error(err))
		return
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	if err := cw.Write([]string{"timestamp", "user", "action", "target", "success", "ip", "details"}); err != nil {
		h.Log.Error("CSV write failed (header)", zap.Error(err))
		return
	}
	for _, row := range rows {
		if err := cw.Write([]string{
			row.Timestamp.UTC().Format(time.RFC3339),
			sanitizeCSVField(row.User),
			row.Action,
			sanitizeCSVField(row.Target),
			strconv.FormatBool(row.Success),
			row.IP,
			sanitizeCSVField(row.Details),
		}); err != nil {
			h.Log.Error("CSV write failed (row)", zap.Error(err))
			return
		}
	}

	h.Log.Info("activity CSV exported", zap.Int("rows", len(rows)))
}

// sanitizeCSVField prevents spreadsheet formula injection.
func sanitizeCSVField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}
