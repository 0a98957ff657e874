package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendee gender choices.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Attendee registration statuses.
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// Attendee is a person registered for an event, distinct from the event's
// creator. One registration issues exactly one ticket.
type Attendee struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	Gender           string    `json:"gender"`
	EventID          uuid.UUID `json:"event"`
	RegistrationDate time.Time `json:"registration_date"`
	Status           string    `json:"status"`
}
