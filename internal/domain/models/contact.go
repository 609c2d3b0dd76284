// internal/domain/models/contact.go
package models

// ContactSubmission is a message sent through the public contact form.
// Status only changes through admin actions.
type ContactSubmission struct {
	Meta            `bson:",inline"`
	Name            string `bson:"name" json:"name"`
	Email           string `bson:"email" json:"email"`
	Company         string `bson:"company,omitempty" json:"company,omitempty"`
	Message         string `bson:"message" json:"message"`
	ServiceInterest string `bson:"service_interest,omitempty" json:"service_interest,omitempty"`
	IPAddress       string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	Status          string `bson:"status" json:"status"`
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Contact submission statuses.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// AllContactStatuses returns the valid statuses in workflow order.
func AllContactStatuses() []string {
	return []string{
		ContactStatusNew,
		ContactStatusRead,
		ContactStatusReplied,
		ContactStatusArchived,
	}
}

// IsValidContactStatus reports whether s is a known status.
func IsValidContactStatus(s string) bool {
	for _, v := range AllContactStatuses() {
		if v == s {
			return true
		}
	}
	return false
}
