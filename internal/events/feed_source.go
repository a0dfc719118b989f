package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bonita-forward-api/internal/models"
	"github.com/rs/zerolog"
)

// feedItem mirrors one entry of the city recreation JSON feed
type feedItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

// FeedSource reads the city recreation department's JSON event feed
type FeedSource struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewFeedSource creates a city feed source
func NewFeedSource(url string, timeout time.Duration, log zerolog.Logger) *FeedSource {
	return &FeedSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("source", models.EventSourceCityFeed).Logger(),
	}
}

// Name implements Source
func (s *FeedSource) Name() string {
	return models.EventSourceCityFeed
}

// Fetch downloads and normalizes the feed. Items without an id or a
// parseable start date are skipped.
func (s *FeedSource) Fetch(ctx context.Context) ([]models.CalendarEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("city feed fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("city feed returned status %d", resp.StatusCode)
	}

	var items []feedItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode city feed: %w", err)
	}

	var fetched []models.CalendarEvent
	skipped := 0

	for _, item := range items {
		startsAt, ok := parseEventDate(item.Start)
		if item.ID == "" || item.Title == "" || !ok {
			skipped++
			continue
		}

		ev := models.CalendarEvent{
			Title:       item.Title,
			Description: item.Description,
			StartsAt:    startsAt,
			Location:    item.Location,
			CategoryKey: item.Category,
			Source:      models.EventSourceCityFeed,
			ExternalID:  item.ID,
		}
		if ev.CategoryKey == "" {
			ev.CategoryKey = "community"
		}
		if endsAt, ok := parseEventDate(item.End); ok {
			ev.EndsAt = &endsAt
		}
		fetched = append(fetched, ev)
	}

	if skipped > 0 {
		s.log.Warn().Int("skipped", skipped).Msg("Skipped invalid feed items")
	}
	return fetched, nil
}
