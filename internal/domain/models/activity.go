// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLog is an append-only record of an admin or system action.
// Entries are never updated or deleted.
type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      string             `bson:"user" json:"user"`     // email of the acting admin, or "system"
	Action    string             `bson:"action" json:"action"` // create, update, delete, login, system
	Target    string             `bson:"target" json:"target"` // e.g. "service:65f...", "settings"
	Details   string             `bson:"details,omitempty" json:"details,omitempty"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	Success   bool               `bson:"success" json:"success"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Activity actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionSystem = "system"
)

// AllActions returns the valid activity actions.
func AllActions() []string {
	return []string{ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionSystem}
}

// IsValidAction reports whether a is a known action.
func IsValidAction(a string) bool {
	for _, v := range AllActions() {
		if v == a {
			return true
		}
	}
	return false
}

// SystemUser is the actor recorded for actions not taken by a signed-in admin.
const SystemUser = "system"
