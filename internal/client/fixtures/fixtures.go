//go:build devfixtures

// Package fixtures provides placeholder rows for the admin list views so
// they can be exercised against an empty or unreachable server. It is only
// compiled with -tags devfixtures.
package fixtures

import (
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enabled reports whether the binary was built with fixtures.
const Enabled = true

func meta(at time.Time) models.Meta {
	return models.Meta{
		ID:        primitive.NewObjectIDFromTimestamp(at),
		Revision:  1,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// Submissions returns three inbox rows, one per active status.
func Submissions(now time.Time) []models.ContactSubmission {
	return []models.ContactSubmission{
		{
			Meta:            meta(now),
			Name:            "John Doe",
			Email:           "john@example.com",
			Company:         "Tech Corp",
			ServiceInterest: "Pre-employment Checks",
			Message:         "We are looking to screen 50 new candidates next month. Can you provide a quote?",
			Status:          models.ContactStatusNew,
		},
		{
			Meta:            meta(now.Add(-24 * time.Hour)),
			Name:            "Sarah Smith",
			Email:           "sarah@startuplab.io",
			Company:         "Startup Lab",
			ServiceInterest: "SME Due Diligence",
			Message:         "Interested in your due diligence services for a new partnership we are exploring.",
			Status:          models.ContactStatusRead,
		},
		{
			Meta:            meta(now.Add(-48 * time.Hour)),
			Name:            "Michael Brown",
			Email:           "m.brown@invest.com",
			Company:         "Invest Group",
			ServiceInterest: "Enhanced Due Diligence",
			Message:         "Urgent request for C-level background checks.",
			Status:          models.ContactStatusReplied,
		},
	}
}

// ActivityLogs returns one entry per action, newest first.
func ActivityLogs(now time.Time) []models.ActivityLog {
	entry := func(ago time.Duration, user, action, target, details string) models.ActivityLog {
		at := now.Add(-ago)
		return models.ActivityLog{
			ID:        primitive.NewObjectIDFromTimestamp(at),
			User:      user,
			Action:    action,
			Target:    target,
			Details:   details,
			Success:   true,
			Timestamp: at,
		}
	}
	return []models.ActivityLog{
		entry(5*time.Minute, "admin@example.com", models.ActionCreate, "blog", `Created post "Top 5 Security Risks"`),
		entry(2*time.Hour, "admin@example.com", models.ActionUpdate, "global_setting:description", "Updated site description"),
		entry(24*time.Hour, "john@example.com", models.ActionLogin, "system", "Successful login"),
		entry(25*time.Hour, "admin@example.com", models.ActionDelete, "testimonial", `Deleted testimonial from "Alice Corp"`),
		entry(48*time.Hour, "system", models.ActionSystem, "backup", "Automated database backup completed"),
	}
}
