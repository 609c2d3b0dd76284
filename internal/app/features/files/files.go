// Package files accepts admin image uploads for service, blog and
// testimonial pictures and hands back the stored path and public URL.
package files

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadSize = 5 << 20 // 5MB

const kind = "upload"

// Handler serves /api/uploads.
type Handler struct {
	fileStorage storage.Store
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a new files Handler.
func NewHandler(
	fileStorage storage.Store,
	errLog *errorsfeature.ErrorLogger,
	auditLogger *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		fileStorage: fileStorage,
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Routes returns the router to mount at /api/uploads. Admin only.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)
	r.Post("/", h.upload)
	r.Delete("/*", h.remove)
	return r
}

// UploadResponse describes a stored image.
type UploadResponse struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// storagePath builds images/YYYY/MM/<8 hex chars><ext>.
func (h *Handler) storagePath(ext string) string {
	now := h.now()
	return fmt.Sprintf("images/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String()[:8], ext)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonutil.Error(w, http.StatusRequestEntityTooLarge, "File too large (max "+FormatFileSize(maxUploadSize)+")")
			return
		}
		jsonutil.BadRequest(w, "expected a multipart form")
		return
	}

	uploaded, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.ValidationError(w, map[string]string{"file": "Please select a file to upload."})
		return
	}
	defer uploaded.Close()

	if header.Size > maxUploadSize {
		jsonutil.Error(w, http.StatusRequestEntityTooLarge, "File too large (max "+FormatFileSize(maxUploadSize)+")")
		return
	}

	// Sniff the real type rather than trusting the client header.
	head := make([]byte, 512)
	n, err := io.ReadFull(uploaded, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.errLog.Log(r, "failed to read upload", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	ext, ok := ImageExt(header.Filename, contentType)
	if !ok {
		jsonutil.ValidationError(w, map[string]string{"file": "Only JPEG, PNG, GIF and WebP images are accepted."})
		return
	}

	storagePath := h.storagePath(ext)
	body := io.MultiReader(bytes.NewReader(head), uploaded)
	if err := h.fileStorage.Put(r.Context(), storagePath, body, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.errLog.Log(r, "failed to store upload", err)
		jsonutil.InternalError(w, "Failed to upload file")
		return
	}

	h.auditLogger.Created(r, kind, storagePath, header.Filename)
	h.logger.Info("image uploaded",
		zap.String("path", storagePath),
		zap.String("size", FormatFileSize(header.Size)),
		zap.String("content_type", contentType))

	jsonutil.Created(w, UploadResponse{
		Path:        storagePath,
		URL:         h.fileStorage.URL(storagePath),
		Size:        header.Size,
		ContentType: contentType,
	})
}

// remove deletes a previously uploaded image. Only paths under images/ are
// accepted.
func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	if !IsUploadPath(p) {
		jsonutil.NotFound(w, "not found")
		return
	}
	if err := h.fileStorage.Delete(r.Context(), p); err != nil {
		h.errLog.Log(r, "failed to delete upload", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	h.auditLogger.Deleted(r, kind, p, "")
	jsonutil.NoContent(w)
}

// IsUploadPath reports whether p is a clean path this handler could have
// produced.
func IsUploadPath(p string) bool {
	if p == "" || strings.Contains(p, "..") || strings.Contains(p, "\\") {
		return false
	}
	return strings.HasPrefix(p, "images/") && path.Clean(p) == p
}
