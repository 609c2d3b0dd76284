// internal/domain/models/meta.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meta carries the identity, timestamps and revision shared by every entity.
// It is embedded inline in each entity document.
//
// Revision starts at 1 on insert and is incremented by every update. Writers
// submit the revision they last read; a mismatch is a conflict, not an overwrite.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Revision  int64              `bson:"revision" json:"revision"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Base returns the embedded Meta so generic stores can stamp it.
func (m *Meta) Base() *Meta { return m }

// IDHex returns the hex form of the ID, or "" when unset.
func (m Meta) IDHex() string {
	if m.ID.IsZero() {
		return ""
	}
	return m.ID.Hex()
}
