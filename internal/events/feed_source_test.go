package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bonita-forward-api/internal/models"
	"github.com/rs/zerolog"
)

const cityFeed = `[
  {"id":"rec-100","title":"Movies in the Park","description":"Outdoor screening","start":"2026-09-05T19:30:00Z","end":"2026-09-05T21:30:00Z","location":"Community Park","category":"outdoor"},
  {"id":"rec-101","title":"Pickleball Open Play","start":"2026-09-06T09:00"},
  {"id":"","title":"No ID","start":"2026-09-07T09:00"},
  {"id":"rec-103","title":"","start":"2026-09-07T09:00"},
  {"id":"rec-104","title":"Bad Date","start":"soon"}
]`

func TestFeedSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Expected JSON accept header, got %q", accept)
		}
		w.Write([]byte(cityFeed))
	}))
	defer srv.Close()

	source := NewFeedSource(srv.URL, time.Second, zerolog.Nop())
	if source.Name() != models.EventSourceCityFeed {
		t.Errorf("Expected source name %q, got %q", models.EventSourceCityFeed, source.Name())
	}

	fetched, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Missing id, missing title and unparseable start are skipped
	if len(fetched) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(fetched))
	}

	first := fetched[0]
	if first.ExternalID != "rec-100" {
		t.Errorf("Expected external id rec-100, got %q", first.ExternalID)
	}
	if first.CategoryKey != "outdoor" {
		t.Errorf("Expected category from feed, got %q", first.CategoryKey)
	}
	if first.EndsAt == nil {
		t.Error("Expected ends_at to be set")
	} else {
		want := time.Date(2026, 9, 5, 21, 30, 0, 0, time.UTC)
		if !first.EndsAt.Equal(want) {
			t.Errorf("Expected ends_at %v, got %v", want, *first.EndsAt)
		}
	}

	second := fetched[1]
	if second.CategoryKey != "community" {
		t.Errorf("Expected default category 'community', got %q", second.CategoryKey)
	}
	if second.EndsAt != nil {
		t.Errorf("Expected nil ends_at, got %v", *second.EndsAt)
	}
}

func TestFeedSource_Fetch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	source := NewFeedSource(srv.URL, time.Second, zerolog.Nop())
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Error("Expected error on malformed feed")
	}
}
