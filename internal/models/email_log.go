package models

import (
	"time"

	"github.com/google/uuid"
)

// Email delivery outcomes.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records the outcome of one confirmation email dispatch.
// Delivery is fire-and-forget; the log is the only trace of a failure.
type EmailLog struct {
	ID           uuid.UUID  `json:"id"`
	EventID      *uuid.UUID `json:"event_id,omitempty"`
	AttendeeID   *uuid.UUID `json:"attendee_id,omitempty"`
	Recipient    string     `json:"recipient"`
	Subject      string     `json:"subject,omitempty"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
