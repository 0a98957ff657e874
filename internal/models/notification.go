package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message for a user, optionally tied to an event.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user"`
	Message   string     `json:"message"`
	EventID   *uuid.UUID `json:"event,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	IsRead    bool       `json:"is_read"`
}
