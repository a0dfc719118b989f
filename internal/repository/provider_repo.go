package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bonita-forward-api/internal/database"
	"github.com/bonita-forward-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// providerRepo is the concrete implementation of ProviderRepository
type providerRepo struct {
	db *database.DB
}

// NewProviderRepo creates a new provider repository
func NewProviderRepo(db *database.DB) ProviderRepository {
	return &providerRepo{db: db}
}

const providerColumns = `
	id, name, normalized_name, category_key, tags, rating,
	phone, email, website, address, description, images, badges,
	published, created_at, updated_at
`

// Create inserts a new provider
func (r *providerRepo) Create(ctx context.Context, p *models.Provider) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.NormalizedName = models.NormalizeName(p.Name)

	query := `
		INSERT INTO providers (` + providerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.NormalizedName, p.CategoryKey, pq.Array(p.Tags), p.Rating,
		p.Phone, p.Email, p.Website, p.Address, p.Description,
		pq.Array(p.Images), pq.Array(p.Badges), p.Published, now, now,
	)
	return err
}

// Update replaces the mutable fields of an existing provider
func (r *providerRepo) Update(ctx context.Context, p *models.Provider) error {
	p.NormalizedName = models.NormalizeName(p.Name)

	query := `
		UPDATE providers SET
			name = $2, normalized_name = $3, category_key = $4, tags = $5,
			rating = $6, phone = $7, email = $8, website = $9, address = $10,
			description = $11, images = $12, badges = $13, published = $14,
			updated_at = $15
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.NormalizedName, p.CategoryKey, pq.Array(p.Tags),
		p.Rating, p.Phone, p.Email, p.Website, p.Address, p.Description,
		pq.Array(p.Images), pq.Array(p.Badges), p.Published, time.Now(),
	)
	return err
}

// Upsert inserts or updates on (category_key, normalized_name), so a seed
// re-run against unchanged source data never creates duplicate rows.
func (r *providerRepo) Upsert(ctx context.Context, p *models.Provider) (bool, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.NormalizedName = models.NormalizeName(p.Name)

	query := `
		INSERT INTO providers (` + providerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (category_key, normalized_name) DO UPDATE SET
			name = EXCLUDED.name,
			tags = EXCLUDED.tags,
			rating = EXCLUDED.rating,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			address = EXCLUDED.address,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`
	now := time.Now()
	var created bool
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.NormalizedName, p.CategoryKey, pq.Array(p.Tags), p.Rating,
		p.Phone, p.Email, p.Website, p.Address, p.Description,
		pq.Array(p.Images), pq.Array(p.Badges), p.Published, now, now,
	).Scan(&created)
	return created, err
}

// GetByID retrieves a provider by ID
func (r *providerRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`

	p, err := scanProvider(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByCategory retrieves providers for a category ordered by rating then
// name, the funnel's degraded (no-answers) ordering.
func (r *providerRepo) ListByCategory(ctx context.Context, categoryKey string, publishedOnly bool) ([]models.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE category_key = $1`
	if publishedOnly {
		query += ` AND published = TRUE`
	}
	query += ` ORDER BY rating DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, categoryKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []models.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, *p)
	}
	return providers, rows.Err()
}

// SetPublished flips the published flag
func (r *providerRepo) SetPublished(ctx context.Context, id string, published bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE providers SET published = $2, updated_at = $3 WHERE id = $1`,
		id, published, time.Now(),
	)
	return err
}

// Delete removes a provider
func (r *providerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM providers WHERE id = $1`, id)
	return err
}

// Count returns the total number of providers
func (r *providerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM providers").Scan(&count)
	return count, err
}

// StreamAll streams all providers for export
func (r *providerRepo) StreamAll(ctx context.Context, callback func(*models.Provider) error) error {
	query := `SELECT ` + providerColumns + ` FROM providers ORDER BY category_key, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return err
		}
		if err := callback(p); err != nil {
			return err
		}
	}
	return rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row scanner) (*models.Provider, error) {
	var p models.Provider
	err := row.Scan(
		&p.ID, &p.Name, &p.NormalizedName, &p.CategoryKey, pq.Array(&p.Tags), &p.Rating,
		&p.Phone, &p.Email, &p.Website, &p.Address, &p.Description,
		pq.Array(&p.Images), pq.Array(&p.Badges), &p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
