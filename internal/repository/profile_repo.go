package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bonita-forward-api/internal/database"
	"github.com/bonita-forward-api/internal/models"
	"github.com/google/uuid"
)

// profileRepo is the concrete implementation of ProfileRepository
type profileRepo struct {
	db *database.DB
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db *database.DB) ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, email, name, role, api_token, created_at`

// GetByToken resolves a session token to its profile
func (r *profileRepo) GetByToken(ctx context.Context, token string) (*models.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE api_token = $1`, token)
}

// GetByID retrieves a profile by ID
func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

// GetByEmail retrieves a profile by email (case-insensitive)
func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE LOWER(email) = LOWER($1)`, email)
}

// Upsert inserts or updates a profile by email
func (r *profileRepo) Upsert(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}

	query := `
		INSERT INTO profiles (id, email, name, role, api_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			api_token = EXCLUDED.api_token
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Email, p.Name, p.Role, p.APIToken, time.Now())
	return err
}

func (r *profileRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Email, &p.Name, &p.Role, &p.APIToken, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
