package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// ContactNotificationData describes a new contact submission for staff.
type ContactNotificationData struct {
	SiteName    string
	Name        string
	Email       string
	Company     string
	Message     string
	SubmittedAt time.Time
	AdminURL    string
}

var contactHTML = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#1f2937">
<h2 style="margin:0 0 12px">New contact request{{if .SiteName}} on {{.SiteName}}{{end}}</h2>
<table cellpadding="4" style="border-collapse:collapse">
<tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
<tr><td><strong>Email</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
{{if .Company}}<tr><td><strong>Company</strong></td><td>{{.Company}}</td></tr>{{end}}
<tr><td><strong>Received</strong></td><td>{{.SubmittedAt.Format "2006-01-02 15:04 MST"}}</td></tr>
</table>
<p style="white-space:pre-wrap;border-left:3px solid #3b82f6;padding-left:12px">{{.Message}}</p>
{{if .AdminURL}}<p><a href="{{.AdminURL}}">Open in the admin panel</a></p>{{end}}
</body></html>`))

// ContactNotificationEmail renders the staff notification for a submission.
func ContactNotificationEmail(to string, d ContactNotificationData) (Email, error) {
	subject := "New contact request from " + d.Name
	if d.Company != "" {
		subject += " (" + d.Company + ")"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "New contact request received %s.\n\n", d.SubmittedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&text, "Name:    %s\nEmail:   %s\n", d.Name, d.Email)
	if d.Company != "" {
		fmt.Fprintf(&text, "Company: %s\n", d.Company)
	}
	fmt.Fprintf(&text, "\n%s\n", d.Message)
	if d.AdminURL != "" {
		fmt.Fprintf(&text, "\n%s\n", d.AdminURL)
	}

	var buf bytes.Buffer
	if err := contactHTML.Execute(&buf, d); err != nil {
		return Email{}, err
	}
	return Email{
		To:       to,
		ReplyTo:  d.Email,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: buf.String(),
	}, nil
}
