// internal/client/api.go
package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
)

// User is the authenticated admin as reported by the server.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult is the body of POST /api/auth/login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	User      *User     `json:"user"`
}

// Login exchanges credentials for a bearer token. It does not store the
// token; call SetToken (or use session.Gate).
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil,
		map[string]string{"email": email, "password": password}, &out)
	return out, err
}

// Logout ends the server-side cookie session. Bearer tokens expire on
// their own.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

// SessionInfo is the body of GET /api/auth/session.
type SessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	User          *User  `json:"user"`
	CSRFToken     string `json:"csrf_token"`
}

// Session asks the server who the current token belongs to.
func (c *Client) Session(ctx context.Context) (SessionInfo, error) {
	var out SessionInfo
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, nil, &out)
	return out, err
}

// GetSettings fetches the public settings singleton.
func (c *Client) GetSettings(ctx context.Context) (models.SiteSettings, error) {
	var out models.SiteSettings
	err := c.do(ctx, http.MethodGet, "/api/settings", nil, nil, &out)
	return out, err
}

// UpdateSettings saves s. s.Version must equal the stored version; a
// mismatch returns *ConflictError.
func (c *Client) UpdateSettings(ctx context.Context, s models.SiteSettings) (models.SiteSettings, error) {
	var out models.SiteSettings
	err := c.do(ctx, http.MethodPut, "/api/settings", nil, s, &out)
	return out, err
}

// Resource names accepted by the generic content calls.
const (
	ResourceServices     = "services"
	ResourceFAQs         = "faqs"
	ResourceTestimonials = "testimonials"
	ResourceBlogs        = "blogs"
)

// List fetches a content collection into out (a pointer to a slice). With
// all set, admins also see inactive entries.
func (c *Client) List(ctx context.Context, resource string, all bool, out any) error {
	var q url.Values
	if all {
		q = url.Values{"all": {"1"}}
	}
	return c.do(ctx, http.MethodGet, "/api/"+resource, q, nil, out)
}

// Get fetches one entry by id (or slug for blogs).
func (c *Client) Get(ctx context.Context, resource, id string, out any) error {
	return c.do(ctx, http.MethodGet, "/api/"+resource+"/"+url.PathEscape(id), nil, nil, out)
}

// Create posts doc and decodes the stored entry into out.
func (c *Client) Create(ctx context.Context, resource string, doc, out any) error {
	return c.do(ctx, http.MethodPost, "/api/"+resource, nil, doc, out)
}

// Update puts doc, which must carry the revision it was read at.
func (c *Client) Update(ctx context.Context, resource, id string, doc, out any) error {
	return c.do(ctx, http.MethodPut, "/api/"+resource+"/"+url.PathEscape(id), nil, doc, out)
}

// Delete removes an entry.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/"+resource+"/"+url.PathEscape(id), nil, nil, nil)
}

// Submissions lists contact submissions, optionally filtered by status.
func (c *Client) Submissions(ctx context.Context, status string) ([]models.ContactSubmission, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {status}}
	}
	var out []models.ContactSubmission
	err := c.do(ctx, http.MethodGet, "/api/contact-submissions", q, nil, &out)
	return out, err
}

// SubmissionCounts returns the number of submissions per status.
func (c *Client) SubmissionCounts(ctx context.Context) (map[string]int64, error) {
	var out map[string]int64
	err := c.do(ctx, http.MethodGet, "/api/contact-submissions/counts", nil, nil, &out)
	return out, err
}

// Submission opens one submission. The server marks a new one as read.
func (c *Client) Submission(ctx context.Context, id string) (models.ContactSubmission, error) {
	var out models.ContactSubmission
	err := c.do(ctx, http.MethodGet, "/api/contact-submissions/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// UpdateSubmission changes status and notes at the given revision.
func (c *Client) UpdateSubmission(ctx context.Context, id, status, notes string, revision int64) (models.ContactSubmission, error) {
	var out models.ContactSubmission
	in := map[string]any{"status": status, "notes": notes, "revision": revision}
	err := c.do(ctx, http.MethodPut, "/api/contact-submissions/"+url.PathEscape(id), nil, in, &out)
	return out, err
}

// DeleteSubmission removes a submission.
func (c *Client) DeleteSubmission(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/contact-submissions/"+url.PathEscape(id), nil, nil, nil)
}

// GlobalSettings lists every key/value setting.
func (c *Client) GlobalSettings(ctx context.Context) ([]models.GlobalSetting, error) {
	var out []models.GlobalSetting
	err := c.do(ctx, http.MethodGet, "/api/global-settings", nil, nil, &out)
	return out, err
}

// GlobalSetting fetches one setting by key.
func (c *Client) GlobalSetting(ctx context.Context, key string) (models.GlobalSetting, error) {
	var out models.GlobalSetting
	err := c.do(ctx, http.MethodGet, "/api/global-settings/"+url.PathEscape(key), nil, nil, &out)
	return out, err
}

// PutGlobalSetting creates (revision 0) or updates a setting.
func (c *Client) PutGlobalSetting(ctx context.Context, g models.GlobalSetting) (models.GlobalSetting, error) {
	var out models.GlobalSetting
	in := map[string]any{
		"value":       g.Value,
		"description": g.Description,
		"group":       g.Group,
		"revision":    g.Revision,
	}
	err := c.do(ctx, http.MethodPut, "/api/global-settings/"+url.PathEscape(g.Key), nil, in, &out)
	return out, err
}

// DeleteGlobalSetting removes a setting.
func (c *Client) DeleteGlobalSetting(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, "/api/global-settings/"+url.PathEscape(key), nil, nil, nil)
}

// PageContent returns every section of page keyed by section name.
func (c *Client) PageContent(ctx context.Context, page string) (map[string]models.PageContent, error) {
	var out map[string]models.PageContent
	err := c.do(ctx, http.MethodGet, "/api/page-content/"+url.PathEscape(page), nil, nil, &out)
	return out, err
}

// PutPageContent stores one section. revision 0 writes unconditionally.
func (c *Client) PutPageContent(ctx context.Context, page, section string, content models.Value, revision int64) (models.PageContent, error) {
	var out models.PageContent
	in := map[string]any{"content": content, "revision": revision}
	err := c.do(ctx, http.MethodPut, "/api/page-content/"+url.PathEscape(page)+"/"+url.PathEscape(section), nil, in, &out)
	return out, err
}

// AuditQuery filters the activity log.
type AuditQuery struct {
	Action string
	User   string
	Start  string // YYYY-MM-DD
	End    string // YYYY-MM-DD
	Limit  int
	Page   int
}

// AuditPage is one page of activity entries, newest first.
type AuditPage struct {
	Items []models.ActivityLog `json:"items"`
	Total int64                `json:"total"`
	Limit int64                `json:"limit"`
	Page  int64                `json:"page"`
}

// AuditLogs lists activity entries.
func (c *Client) AuditLogs(ctx context.Context, q AuditQuery) (AuditPage, error) {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("action", q.Action)
	set("user", q.User)
	set("start", q.Start)
	set("end", q.End)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	var out AuditPage
	err := c.do(ctx, http.MethodGet, "/api/audit-logs", v, nil, &out)
	return out, err
}
