package models

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is the admission credential issued for a registration. The event
// title and attendee names are denormalized at issue time so the ticket
// renders without joins. CreatedBy is the event's creator and is the only
// party allowed to redeem the ticket.
type Ticket struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event"`
	AttendeeID uuid.UUID `json:"attendee"`
	EventTitle string    `json:"event_title"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	TicketCode string    `json:"ticket_code"`
	CreatedBy  uuid.UUID `json:"created_by"`
	IssuedDate time.Time `json:"issued_date"`
	IsUsed     bool      `json:"is_used"`
}
