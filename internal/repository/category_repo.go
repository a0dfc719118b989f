package repository

import (
	"context"
	"database/sql"

	"github.com/bonita-forward-api/internal/database"
	"github.com/bonita-forward-api/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// List retrieves all categories in display order
func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, name, icon, description, sort_order FROM categories ORDER BY sort_order, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Key, &c.Name, &c.Icon, &c.Description, &c.SortOrder); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Get retrieves a category by key
func (r *categoryRepo) Get(ctx context.Context, key string) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT key, name, icon, description, sort_order FROM categories WHERE key = $1`, key,
	).Scan(&c.Key, &c.Name, &c.Icon, &c.Description, &c.SortOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert inserts or updates a category by key
func (r *categoryRepo) Upsert(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (key, name, icon, description, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			icon = EXCLUDED.icon,
			description = EXCLUDED.description,
			sort_order = EXCLUDED.sort_order
	`
	_, err := r.db.ExecContext(ctx, query, c.Key, c.Name, c.Icon, c.Description, c.SortOrder)
	return err
}
