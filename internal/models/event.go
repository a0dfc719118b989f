package models

import (
	"time"
)

// Event sources. Community events are submitted by users; the rest are
// maintained by the sync jobs and keyed by (source, external_id).
const (
	EventSourceCommunity = "community"
	EventSourceLibrary   = "bonita-library"
	EventSourceCityFeed  = "city-feed"
)

// ImageTypeStored marks an event whose image_url points at the owned
// storage bucket. Events without a stored image carry a NULL image_url and
// the client computes a gradient; gradients are never persisted.
const ImageTypeStored = "stored"

// CalendarEvent represents a community calendar event
type CalendarEvent struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" db:"ends_at"`
	Location    string     `json:"location,omitempty" db:"location"`
	CategoryKey string     `json:"category_key" db:"category_key"`
	Source      string     `json:"source" db:"source"`
	ExternalID  string     `json:"external_id,omitempty" db:"external_id"`
	ImageURL    *string    `json:"image_url,omitempty" db:"image_url"`
	ImageType   *string    `json:"image_type,omitempty" db:"image_type"`
	Upvotes     int        `json:"upvotes" db:"upvotes"`
	Downvotes   int        `json:"downvotes" db:"downvotes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// HasStoredImage reports whether the event carries a persisted image URL
func (e *CalendarEvent) HasStoredImage() bool {
	return e.ImageURL != nil && *e.ImageURL != ""
}

// EventSubmission represents a user-submitted community event
type EventSubmission struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at,omitempty"`
	Location    string `json:"location"`
	CategoryKey string `json:"category_key"`
}

// SyncResult summarizes one sync run for a single source
type SyncResult struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Pruned  int    `json:"pruned"`
	Failed  int    `json:"failed"`
}

// BackfillResult summarizes one image-backfill run
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
