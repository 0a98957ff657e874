package registrations

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedo/server/internal/models"
)

// Repository handles attendee and ticket persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateAttendee inserts an attendee registration.
func (r *Repository) CreateAttendee(ctx context.Context, a *models.Attendee) error {
	const q = `INSERT INTO attendees (id, first_name, last_name, email, phone_number, gender, event_id, status)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, registration_date`
	return r.pool.QueryRow(ctx, q, a.FirstName, a.LastName, a.Email, a.PhoneNumber, a.Gender, a.EventID, a.Status).
		Scan(&a.ID, &a.RegistrationDate)
}

// AttendeeExists reports whether an email is already registered for an event.
// The duplicate check is application-level; there is no DB constraint.
func (r *Repository) AttendeeExists(ctx context.Context, eventID uuid.UUID, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM attendees WHERE event_id = $1 AND email = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, q, eventID, email).Scan(&exists)
	return exists, err
}

// ListByEvent returns all attendees for an event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error) {
	const q = `SELECT id, first_name, last_name, email, phone_number, gender, event_id, registration_date, status
		FROM attendees WHERE event_id = $1 ORDER BY registration_date DESC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Attendee
	for rows.Next() {
		var a models.Attendee
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PhoneNumber, &a.Gender, &a.EventID, &a.RegistrationDate, &a.Status); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CreateTicket inserts a ticket. Fails with a unique violation when the
// generated code collides; callers regenerate and retry.
func (r *Repository) CreateTicket(ctx context.Context, t *models.Ticket) error {
	const q = `INSERT INTO tickets (id, event_id, attendee_id, event_title, first_name, last_name, ticket_code, created_by)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, issued_date, is_used`
	return r.pool.QueryRow(ctx, q, t.EventID, t.AttendeeID, t.EventTitle, t.FirstName, t.LastName, t.TicketCode, t.CreatedBy).
		Scan(&t.ID, &t.IssuedDate, &t.IsUsed)
}

// GetTicketByCode returns a ticket by its code.
func (r *Repository) GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error) {
	const q = `SELECT id, event_id, attendee_id, event_title, first_name, last_name, ticket_code, created_by, issued_date, is_used
		FROM tickets WHERE ticket_code = $1`
	var t models.Ticket
	err := r.pool.QueryRow(ctx, q, code).
		Scan(&t.ID, &t.EventID, &t.AttendeeID, &t.EventTitle, &t.FirstName, &t.LastName, &t.TicketCode, &t.CreatedBy, &t.IssuedDate, &t.IsUsed)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// RedeemTicket flips is_used in a single conditional update. Returns true
// when this call performed the UNUSED -> USED transition; false when the
// ticket was already used. Under concurrent scans of the same code exactly
// one caller sees true.
func (r *Repository) RedeemTicket(ctx context.Context, code string) (bool, error) {
	const q = `UPDATE tickets SET is_used = TRUE WHERE ticket_code = $1 AND is_used = FALSE`
	tag, err := r.pool.Exec(ctx, q, code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CountByEvent returns total registrations and redeemed ticket count for an
// event.
func (r *Repository) CountByEvent(ctx context.Context, eventID uuid.UUID) (total, redeemed int, err error) {
	const q = `SELECT
			(SELECT COUNT(*) FROM attendees WHERE event_id = $1),
			(SELECT COUNT(*) FROM tickets WHERE event_id = $1 AND is_used = TRUE)`
	err = r.pool.QueryRow(ctx, q, eventID).Scan(&total, &redeemed)
	return total, redeemed, err
}
