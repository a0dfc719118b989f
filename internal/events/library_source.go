package events

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bonita-forward-api/internal/models"
	"github.com/rs/zerolog"
)

// dateLayouts accepted in the library calendar markup, most specific first
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LibrarySource scrapes the branch library's event listing page
type LibrarySource struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewLibrarySource creates a library calendar source
func NewLibrarySource(url string, timeout time.Duration, log zerolog.Logger) *LibrarySource {
	return &LibrarySource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("source", models.EventSourceLibrary).Logger(),
	}
}

// Name implements Source
func (s *LibrarySource) Name() string {
	return models.EventSourceLibrary
}

// Fetch scrapes the listing page and returns normalized events.
// Rows without a parseable date are skipped and counted, not fatal.
func (s *LibrarySource) Fetch(ctx context.Context) ([]models.CalendarEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", "bonita-forward-sync/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("library fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("library fetch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse library page: %w", err)
	}

	var fetched []models.CalendarEvent
	skipped := 0

	doc.Find(".event-item").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(".event-title").Text())
		if title == "" {
			skipped++
			return
		}

		startsAt, ok := parseEventDate(sel.Find("time").AttrOr("datetime", ""))
		if !ok {
			skipped++
			return
		}

		// Prefer the page's own event id; fall back to slug+date, which is
		// stable as long as the title and date are.
		externalID := sel.AttrOr("data-event-id", "")
		if externalID == "" {
			externalID = slugify(title) + "-" + startsAt.Format("2006-01-02")
		}

		fetched = append(fetched, models.CalendarEvent{
			Title:       title,
			Description: strings.TrimSpace(sel.Find(".event-description").Text()),
			StartsAt:    startsAt,
			Location:    strings.TrimSpace(sel.Find(".event-location").Text()),
			CategoryKey: "library",
			Source:      models.EventSourceLibrary,
			ExternalID:  externalID,
		})
	})

	if skipped > 0 {
		s.log.Warn().Int("skipped", skipped).Msg("Skipped unparseable event rows")
	}
	return fetched, nil
}

func parseEventDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
