package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bonita-forward-api/internal/database"
	"github.com/bonita-forward-api/internal/models"
	"github.com/google/uuid"
)

// bookingRepo is the concrete implementation of BookingRepository
type bookingRepo struct {
	db *database.DB
}

// NewBookingRepo creates a new booking repository
func NewBookingRepo(db *database.DB) BookingRepository {
	return &bookingRepo{db: db}
}

const bookingColumns = `
	id, provider_id, profile_id, name, email, phone, requested_at, notes,
	status, created_at, updated_at
`

// Create inserts a new booking with pending status
func (r *bookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = models.BookingStatusPending
	}

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.ProviderID, b.ProfileID, b.Name, b.Email, b.Phone,
		b.RequestedAt, b.Notes, b.Status, now, now,
	)
	return err
}

// GetByID retrieves a booking by ID
func (r *bookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListByProfile retrieves one profile's bookings, newest first
func (r *bookingRepo) ListByProfile(ctx context.Context, profileID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE profile_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, profileID)
}

// List retrieves bookings, optionally filtered by status, newest first
func (r *bookingRepo) List(ctx context.Context, status string) ([]models.Booking, error) {
	if status != "" {
		return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
}

// SetStatus updates a booking's status
func (r *bookingRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	return err
}

func (r *bookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(row scanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.ProviderID, &b.ProfileID, &b.Name, &b.Email, &b.Phone,
		&b.RequestedAt, &b.Notes, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
