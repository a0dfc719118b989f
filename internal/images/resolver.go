package images

import (
	"net/url"
	"strings"

	"github.com/bonita-forward-api/internal/models"
)

// ResolvedType discriminates the two display forms of an event image
type ResolvedType string

const (
	TypeImage    ResolvedType = "image"
	TypeGradient ResolvedType = "gradient"
)

// Resolved is the display value for an event's image slot: either a stored
// HTTP(S) URL or a client-side CSS gradient. The two are mutually
// exclusive; Value never holds a gradient when Type is "image" and never
// holds a URL when Type is "gradient".
type Resolved struct {
	Type  ResolvedType `json:"type"`
	Value string       `json:"value"`
}

// Resolve picks the display image for an event. A stored HTTP(S) URL wins;
// anything else falls back to a gradient computed from the event's category
// and title keywords.
func Resolve(e *models.CalendarEvent) Resolved {
	if e.HasStoredImage() && isHTTPURL(*e.ImageURL) {
		return Resolved{Type: TypeImage, Value: *e.ImageURL}
	}
	return Resolved{Type: TypeGradient, Value: GradientFor(e.CategoryKey, e.Title)}
}

// CanPersistURL reports whether raw may be written to an event's image_url
// column. Only HTTP(S) URLs on the owned storage host qualify; gradient
// strings and third-party hot-link hosts are rejected. An empty ownedHost
// disables the host check (local development).
func CanPersistURL(raw, ownedHost string) bool {
	if strings.Contains(raw, "gradient(") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	if ownedHost != "" && !strings.EqualFold(u.Host, ownedHost) {
		return false
	}
	return true
}

func isHTTPURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
