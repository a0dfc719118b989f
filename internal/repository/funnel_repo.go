package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/bonita-forward-api/internal/database"
	"github.com/bonita-forward-api/internal/models"
	"github.com/google/uuid"
)

// funnelRepo is the concrete implementation of FunnelRepository
type funnelRepo struct {
	db *database.DB
}

// NewFunnelRepo creates a new funnel-response repository
func NewFunnelRepo(db *database.DB) FunnelRepository {
	return &funnelRepo{db: db}
}

// Upsert inserts or replaces the answers for (profile_id, category_key)
func (r *funnelRepo) Upsert(ctx context.Context, resp *models.FunnelResponse) error {
	if resp.ID == "" {
		resp.ID = uuid.New().String()
	}
	answersJSON, err := json.Marshal(resp.Answers)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO funnel_responses (id, profile_id, category_key, answers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (profile_id, category_key) DO UPDATE SET
			answers = EXCLUDED.answers,
			updated_at = EXCLUDED.updated_at
	`
	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		resp.ID, resp.ProfileID, resp.CategoryKey, answersJSON, now, now,
	)
	return err
}

// GetByProfileAndCategory retrieves one profile's answers for a category
func (r *funnelRepo) GetByProfileAndCategory(ctx context.Context, profileID, categoryKey string) (*models.FunnelResponse, error) {
	query := `
		SELECT id, profile_id, category_key, answers, created_at, updated_at
		FROM funnel_responses
		WHERE profile_id = $1 AND category_key = $2
	`

	var resp models.FunnelResponse
	var answersJSON []byte
	err := r.db.QueryRowContext(ctx, query, profileID, categoryKey).Scan(
		&resp.ID, &resp.ProfileID, &resp.CategoryKey, &answersJSON,
		&resp.CreatedAt, &resp.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(answersJSON, &resp.Answers); err != nil {
		return nil, err
	}
	return &resp, nil
}
