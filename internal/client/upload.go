// internal/client/upload.go
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// Upload describes a stored image.
type Upload struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// UploadImage sends r as a multipart "file" field named filename.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return Upload{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return Upload{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return Upload{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/uploads", &buf)
	if err != nil {
		return Upload{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out Upload
	err = c.send(req, &out)
	return out, err
}

// DeleteUpload removes a stored image by its path.
func (c *Client) DeleteUpload(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, "/api/uploads/"+path, nil, nil, nil)
}
