package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents an active event. Schedule fields are stored as the
// display strings supplied by the client, not parsed timestamps.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	OnlineLink  string    `json:"online_link,omitempty"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	MeetingID   string    `json:"meeting_id,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsActive    bool      `json:"is_active"`
	IsPublic    bool      `json:"is_public"`
	IsOnline    bool      `json:"is_online"`
}

// ArchivedEvent mirrors Event but lives in the archive table. An event's
// record exists in exactly one of the two tables at any time.
type ArchivedEvent struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	OnlineLink  string    `json:"online_link,omitempty"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	MeetingID   string    `json:"meeting_id,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsActive    bool      `json:"is_active"`
	IsPublic    bool      `json:"is_public"`
	IsOnline    bool      `json:"is_online"`
}
