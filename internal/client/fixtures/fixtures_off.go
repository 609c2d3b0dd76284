//go:build !devfixtures

package fixtures

import (
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
)

// Enabled reports whether the binary was built with fixtures.
const Enabled = false

// Submissions returns nil without the devfixtures tag.
func Submissions(time.Time) []models.ContactSubmission { return nil }

// ActivityLogs returns nil without the devfixtures tag.
func ActivityLogs(time.Time) []models.ActivityLog { return nil }
