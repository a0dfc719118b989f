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

// eventRepo is the concrete implementation of EventRepository
type eventRepo struct {
	db *database.DB
}

// NewEventRepo creates a new event repository
func NewEventRepo(db *database.DB) EventRepository {
	return &eventRepo{db: db}
}

const eventColumns = `
	id, title, description, starts_at, ends_at, location, category_key,
	source, external_id, image_url, image_type, upvotes, downvotes,
	created_at, updated_at
`

// Create inserts a new event (community submissions)
func (r *eventRepo) Create(ctx context.Context, ev *models.CalendarEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Source == "" {
		ev.Source = models.EventSourceCommunity
	}

	query := `
		INSERT INTO calendar_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		ev.ID, ev.Title, ev.Description, ev.StartsAt, ev.EndsAt, ev.Location,
		ev.CategoryKey, ev.Source, ev.ExternalID, ev.ImageURL, ev.ImageType,
		ev.Upvotes, ev.Downvotes, now, now,
	)
	return err
}

// GetByID retrieves an event by ID
func (r *eventRepo) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1`

	ev, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ListUpcoming retrieves events starting at or after from, soonest first
func (r *eventRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.CalendarEvent, error) {
	query := `
		SELECT ` + eventColumns + ` FROM calendar_events
		WHERE starts_at >= $1
		ORDER BY starts_at ASC, title ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []models.CalendarEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		evs = append(evs, *ev)
	}
	return evs, rows.Err()
}

// UpsertBySourceKey inserts or updates on (source, external_id). The
// COALESCE on the image columns is what keeps previously attached images
// across a re-sync: a fresh fetch carries no image, so the stored one wins.
func (r *eventRepo) UpsertBySourceKey(ctx context.Context, ev *models.CalendarEvent) (bool, error) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}

	query := `
		INSERT INTO calendar_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (source, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			location = EXCLUDED.location,
			category_key = EXCLUDED.category_key,
			image_url = COALESCE(EXCLUDED.image_url, calendar_events.image_url),
			image_type = COALESCE(EXCLUDED.image_type, calendar_events.image_type),
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`
	now := time.Now()
	var created bool
	err := r.db.QueryRowContext(ctx, query,
		ev.ID, ev.Title, ev.Description, ev.StartsAt, ev.EndsAt, ev.Location,
		ev.CategoryKey, ev.Source, ev.ExternalID, ev.ImageURL, ev.ImageType,
		ev.Upvotes, ev.Downvotes, now, now,
	).Scan(&created)
	return created, err
}

// PruneStale deletes rows for the source no longer present upstream
func (r *eventRepo) PruneStale(ctx context.Context, source string, keep []string) (int, error) {
	query := `
		DELETE FROM calendar_events
		WHERE source = $1 AND external_id <> ALL($2)
	`
	res, err := r.db.ExecContext(ctx, query, source, pq.Array(keep))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListMissingImages retrieves upcoming events with no stored image
func (r *eventRepo) ListMissingImages(ctx context.Context, limit int) ([]models.CalendarEvent, error) {
	query := `
		SELECT ` + eventColumns + ` FROM calendar_events
		WHERE image_url IS NULL AND starts_at >= NOW()
		ORDER BY starts_at ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []models.CalendarEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		evs = append(evs, *ev)
	}
	return evs, rows.Err()
}

// SetImage attaches a stored image URL to an event
func (r *eventRepo) SetImage(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE calendar_events SET image_url = $2, image_type = $3, updated_at = $4 WHERE id = $1`,
		id, url, models.ImageTypeStored, time.Now(),
	)
	return err
}

// Vote records or flips a profile's vote and refreshes the counters.
// One row per (event, profile); repeat votes replace, never accumulate.
func (r *eventRepo) Vote(ctx context.Context, eventID, profileID string, up bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_votes (event_id, profile_id, is_upvote, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, profile_id) DO UPDATE SET
			is_upvote = EXCLUDED.is_upvote,
			created_at = EXCLUDED.created_at
	`, eventID, profileID, up, time.Now())
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE calendar_events SET
			upvotes = (SELECT COUNT(*) FROM event_votes WHERE event_id = $1 AND is_upvote),
			downvotes = (SELECT COUNT(*) FROM event_votes WHERE event_id = $1 AND NOT is_upvote),
			updated_at = $2
		WHERE id = $1
	`, eventID, time.Now())
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Count returns the total number of events
func (r *eventRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendar_events").Scan(&count)
	return count, err
}

func scanEvent(row scanner) (*models.CalendarEvent, error) {
	var ev models.CalendarEvent
	var endsAt sql.NullTime
	var imageURL, imageType sql.NullString

	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.StartsAt, &endsAt, &ev.Location,
		&ev.CategoryKey, &ev.Source, &ev.ExternalID, &imageURL, &imageType,
		&ev.Upvotes, &ev.Downvotes, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endsAt.Valid {
		ev.EndsAt = &endsAt.Time
	}
	if imageURL.Valid {
		ev.ImageURL = &imageURL.String
	}
	if imageType.Valid {
		ev.ImageType = &imageType.String
	}
	return &ev, nil
}
