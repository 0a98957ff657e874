package accounts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schedo/server/internal/models"
)

// Repository handles user and profile persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an accounts repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a user with an already-hashed password.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	const q = `INSERT INTO users (id, email, password)
		VALUES (gen_random_uuid(), $1, $2)
		RETURNING id, email, password, is_active, date_joined`
	var u models.User
	err := r.pool.QueryRow(ctx, q, email, passwordHash).
		Scan(&u.ID, &u.Email, &u.Password, &u.IsActive, &u.DateJoined)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT id, email, password, is_active, date_joined FROM users WHERE email = $1`
	var u models.User
	err := r.pool.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.Password, &u.IsActive, &u.DateJoined)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT id, email, password, is_active, date_joined FROM users WHERE id = $1`
	var u models.User
	err := r.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Email, &u.Password, &u.IsActive, &u.DateJoined)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateProfile inserts the profile for a user (one per user).
func (r *Repository) CreateProfile(ctx context.Context, p *models.Profile) error {
	const q = `INSERT INTO profiles (id, user_id, first_name, last_name, phone_number, bio, profile_picture, location)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	return r.pool.QueryRow(ctx, q, p.UserID, p.FirstName, p.LastName, p.PhoneNumber, p.Bio, p.ProfilePicture, p.Location).
		Scan(&p.ID)
}

// GetProfileByUserID returns the profile attached to a user.
func (r *Repository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const q = `SELECT id, user_id, first_name, last_name, phone_number, bio, profile_picture, location
		FROM profiles WHERE user_id = $1`
	var p models.Profile
	err := r.pool.QueryRow(ctx, q, userID).
		Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.PhoneNumber, &p.Bio, &p.ProfilePicture, &p.Location)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile replaces all profile fields for a user. Returns the number of
// rows updated so callers can distinguish a missing profile.
func (r *Repository) UpdateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	const q = `UPDATE profiles
		SET first_name = $1, last_name = $2, phone_number = $3, bio = $4, profile_picture = $5, location = $6
		WHERE user_id = $7`
	tag, err := r.pool.Exec(ctx, q, p.FirstName, p.LastName, p.PhoneNumber, p.Bio, p.ProfilePicture, p.Location, p.UserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
