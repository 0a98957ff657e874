package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedo/server/internal/models"
)

const eventColumns = `id, title, online_link, description, thumbnail, start_date, end_date, start_time, end_time,
	location, category, meeting_id, created_by, created_at, updated_at, is_active, is_public, is_online`

// Repository handles event and archive persistence. Active events and
// archived events live in separate tables; the transfer operations move a
// record from one to the other inside a single transaction so it is never in
// both or neither.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.OnlineLink, &e.Description, &e.Thumbnail,
		&e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime,
		&e.Location, &e.Category, &e.MeetingID,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&e.IsActive, &e.IsPublic, &e.IsOnline)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanArchived(row pgx.Row) (*models.ArchivedEvent, error) {
	var a models.ArchivedEvent
	err := row.Scan(&a.ID, &a.Title, &a.OnlineLink, &a.Description, &a.Thumbnail,
		&a.StartDate, &a.EndDate, &a.StartTime, &a.EndTime,
		&a.Location, &a.Category, &a.MeetingID,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		&a.IsActive, &a.IsPublic, &a.IsOnline)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (id, title, online_link, description, thumbnail, start_date, end_date, start_time, end_time,
			location, category, meeting_id, created_by, is_public, is_online)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at, is_active`
	return r.pool.QueryRow(ctx, q,
		e.Title, e.OnlineLink, e.Description, e.Thumbnail,
		e.StartDate, e.EndDate, e.StartTime, e.EndTime,
		e.Location, e.Category, e.MeetingID,
		e.CreatedBy, e.IsPublic, e.IsOnline).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt, &e.IsActive)
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// ListPublic returns all events with is_public set, newest first.
func (r *Repository) ListPublic(ctx context.Context) ([]models.Event, error) {
	return r.listEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE is_public = TRUE ORDER BY created_at DESC`)
}

// ListByCreator returns all events created by the user, newest first.
func (r *Repository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	return r.listEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE created_by = $1 ORDER BY created_at DESC`, userID)
}

func (r *Repository) listEvents(ctx context.Context, q string, args ...interface{}) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update replaces the mutable fields of an event. The creator is immutable.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events
		SET title = $1, online_link = $2, description = $3, thumbnail = $4,
			start_date = $5, end_date = $6, start_time = $7, end_time = $8,
			location = $9, category = $10, meeting_id = $11,
			is_active = $12, is_public = $13, is_online = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q,
		e.Title, e.OnlineLink, e.Description, e.Thumbnail,
		e.StartDate, e.EndDate, e.StartTime, e.EndTime,
		e.Location, e.Category, e.MeetingID,
		e.IsActive, e.IsPublic, e.IsOnline, e.ID).
		Scan(&e.UpdatedAt)
}

// Delete removes an event permanently. Attendees and tickets cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// GetArchiveByID returns an archived event by ID.
func (r *Repository) GetArchiveByID(ctx context.Context, id uuid.UUID) (*models.ArchivedEvent, error) {
	return scanArchived(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM event_archives WHERE id = $1`, id))
}

// ListArchivesByCreator returns the caller's archived events, newest first.
func (r *Repository) ListArchivesByCreator(ctx context.Context, userID uuid.UUID) ([]models.ArchivedEvent, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM event_archives WHERE created_by = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ArchivedEvent
	for rows.Next() {
		a, err := scanArchived(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// Archive moves an event into the archive table: copy the domain fields into
// a new archive row, then delete the source row, both inside one transaction.
func (r *Repository) Archive(ctx context.Context, eventID uuid.UUID) (*models.ArchivedEvent, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const copyQ = `INSERT INTO event_archives (id, title, online_link, description, thumbnail, start_date, end_date, start_time, end_time,
			location, category, meeting_id, created_by, is_active, is_public, is_online)
		SELECT gen_random_uuid(), title, online_link, description, thumbnail, start_date, end_date, start_time, end_time,
			location, category, meeting_id, created_by, is_active, is_public, is_online
		FROM events WHERE id = $1
		RETURNING ` + eventColumns
	archived, err := scanArchived(tx.QueryRow(ctx, copyQ, eventID))
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return archived, nil
}

// Restore moves an archived event back into the active table. Symmetric
// inverse of Archive, with the same transactional guarantee.
func (r *Repository) Restore(ctx context.Context, archiveID uuid.UUID) (*models.Event, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const copyQ = `INSERT INTO events (id, title, online_link, description, thumbnail, start_date, end_date, start_time, end_time,
			location, category, meeting_id, created_by, is_active, is_public, is_online)
		SELECT gen_random_uuid(), title, online_link, description, thumbnail, start_date, end_date, start_time, end_time,
			location, category, meeting_id, created_by, is_active, is_public, is_online
		FROM event_archives WHERE id = $1
		RETURNING ` + eventColumns
	restored, err := scanEvent(tx.QueryRow(ctx, copyQ, archiveID))
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM event_archives WHERE id = $1`, archiveID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return restored, nil
}

// DeleteArchive removes an archived event permanently.
func (r *Repository) DeleteArchive(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM event_archives WHERE id = $1`, id)
	return err
}

// RestoreAllByCreator restores every archived event owned by the user, one
// transfer at a time. Stops at the first failure; entities already restored
// stay restored.
func (r *Repository) RestoreAllByCreator(ctx context.Context, userID uuid.UUID) (int, error) {
	archives, err := r.ListArchivesByCreator(ctx, userID)
	if err != nil {
		return 0, err
	}
	restored := 0
	for _, a := range archives {
		if _, err := r.Restore(ctx, a.ID); err != nil {
			return restored, err
		}
		restored++
	}
	return restored, nil
}

// DeleteAllArchivesByCreator deletes every archived event owned by the user.
func (r *Repository) DeleteAllArchivesByCreator(ctx context.Context, userID uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM event_archives WHERE created_by = $1`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
