package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a person the user keeps notes about. Its ID doubles as the
// conversation id in the note store.
type Contact struct {
	ID        uuid.UUID
	Name      string
	Company   string
	Phone     string
	CreatedAt time.Time

	// Seq is the registration order, used as the final sort tie-break.
	Seq int
}
