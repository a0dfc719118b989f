package events

import (
	"context"
	"regexp"
	"strings"

	"github.com/bonita-forward-api/internal/models"
)

// Source fetches the current set of events from one external calendar.
// Every returned event must carry Source and a stable ExternalID; the sync
// job upserts on that pair, so an ID that changes between fetches would
// orphan previously attached images.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.CalendarEvent, error)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify builds a stable external id fragment from free text
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
