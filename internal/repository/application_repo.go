package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bonita-forward-api/internal/database"
	"github.com/bonita-forward-api/internal/models"
	"github.com/google/uuid"
)

// applicationRepo is the concrete implementation of ApplicationRepository
type applicationRepo struct {
	db *database.DB
}

// NewApplicationRepo creates a new business-application repository
func NewApplicationRepo(db *database.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `
	id, business_name, category_key, contact_name, email, phone, message,
	status, review_notes, created_at, reviewed_at
`

// Create inserts a new application with pending status
func (r *applicationRepo) Create(ctx context.Context, a *models.BusinessApplication) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = models.ApplicationStatusPending
	}

	query := `
		INSERT INTO business_applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.BusinessName, a.CategoryKey, a.ContactName, a.Email, a.Phone,
		a.Message, a.Status, a.ReviewNotes, time.Now(), nil,
	)
	return err
}

// GetByID retrieves an application by ID
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.BusinessApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM business_applications WHERE id = $1`

	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List retrieves applications, optionally filtered by status, newest first
func (r *applicationRepo) List(ctx context.Context, status string) ([]models.BusinessApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM business_applications`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.BusinessApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// SetStatus records an admin review decision
func (r *applicationRepo) SetStatus(ctx context.Context, id, status, notes string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE business_applications SET status = $2, review_notes = $3, reviewed_at = $4 WHERE id = $1`,
		id, status, notes, time.Now(),
	)
	return err
}

func scanApplication(row scanner) (*models.BusinessApplication, error) {
	var a models.BusinessApplication
	var reviewedAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.BusinessName, &a.CategoryKey, &a.ContactName, &a.Email,
		&a.Phone, &a.Message, &a.Status, &a.ReviewNotes, &a.CreatedAt, &reviewedAt,
	)
	if err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		a.ReviewedAt = &reviewedAt.Time
	}
	return &a, nil
}
