package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bonita-forward-api/internal/config"
	"github.com/bonita-forward-api/internal/mocks"
	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/service"
	"github.com/rs/zerolog"
)

func testConfig() *config.Config {
	return &config.Config{
		Sync: config.SyncConfig{
			Enabled:      true,
			Interval:     time.Hour,
			FetchTimeout: 2 * time.Second,
		},
		Images: config.ImagesConfig{
			SearchTimeout: 2 * time.Second,
		},
		Admin: config.AdminConfig{
			Emails: []string{"admin@bonitaforward.com"},
		},
	}
}

func newTestServices(t *testing.T, cfg *config.Config) (*service.Services, *mocks.Repos) {
	t.Helper()
	repos := mocks.NewRepos()
	return service.NewServices(repos.Repositories(), cfg, zerolog.Nop()), repos
}

// feedServer serves a mutable city-feed JSON body
type feedServer struct {
	mu   sync.Mutex
	body string
	srv  *httptest.Server
}

func newFeedServer(body string) *feedServer {
	f := &feedServer{body: body}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Write([]byte(f.body))
	}))
	return f
}

func (f *feedServer) set(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body = body
}

func TestEventService_SyncIsIdempotent(t *testing.T) {
	feed := newFeedServer(`[
		{"id":"rec-1","title":"Movies in the Park","start":"2026-09-05T19:30:00Z","category":"outdoor"},
		{"id":"rec-2","title":"Pickleball Open Play","start":"2026-09-06T09:00:00Z"}
	]`)
	defer feed.srv.Close()

	cfg := testConfig()
	cfg.Sync.CityFeedURL = feed.srv.URL
	services, repos := newTestServices(t, cfg)

	result, err := services.Events.SyncSource(context.Background(), models.EventSourceCityFeed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Fetched != 2 || result.Created != 2 || result.Updated != 0 || result.Pruned != 0 {
		t.Errorf("First run: expected 2 fetched/created, got %+v", result)
	}
	if len(repos.Event.Events) != 2 {
		t.Fatalf("Expected 2 stored events, got %d", len(repos.Event.Events))
	}

	// Re-running against unchanged source data creates nothing
	result, err = services.Events.SyncSource(context.Background(), models.EventSourceCityFeed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Created != 0 || result.Updated != 2 || result.Pruned != 0 {
		t.Errorf("Second run: expected 2 updated, got %+v", result)
	}
	if len(repos.Event.Events) != 2 {
		t.Errorf("Expected 2 stored events after re-run, got %d", len(repos.Event.Events))
	}
}

func TestEventService_SyncPreservesAttachedImages(t *testing.T) {
	feed := newFeedServer(`[{"id":"rec-1","title":"Movies in the Park","start":"2026-09-05T19:30:00Z"}]`)
	defer feed.srv.Close()

	cfg := testConfig()
	cfg.Sync.CityFeedURL = feed.srv.URL
	services, repos := newTestServices(t, cfg)

	if _, err := services.Events.SyncSource(context.Background(), models.EventSourceCityFeed); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ev := repos.Event.GetBySourceKey(models.EventSourceCityFeed, "rec-1")
	if ev == nil {
		t.Fatal("Expected synced event")
	}
	stored := "https://storage.bonitaforward.com/object/public/event-images/events/" + ev.ID + ".jpg"
	repos.Event.SetImage(context.Background(), ev.ID, stored)

	// A later sync of the same upstream row must not clear the image
	if _, err := services.Events.SyncSource(context.Background(), models.EventSourceCityFeed); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ev = repos.Event.GetBySourceKey(models.EventSourceCityFeed, "rec-1")
	if ev.ImageURL == nil || *ev.ImageURL != stored {
		t.Errorf("Expected image to survive re-sync, got %v", ev.ImageURL)
	}
	if ev.ImageType == nil || *ev.ImageType != models.ImageTypeStored {
		t.Errorf("Expected stored image type to survive re-sync, got %v", ev.ImageType)
	}
}

func TestEventService_SyncPrunesStaleRows(t *testing.T) {
	feed := newFeedServer(`[
		{"id":"rec-1","title":"Movies in the Park","start":"2026-09-05T19:30:00Z"},
		{"id":"rec-2","title":"Pickleball Open Play","start":"2026-09-06T09:00:00Z"}
	]`)
	defer feed.srv.Close()

	cfg := testConfig()
	cfg.Sync.CityFeedURL = feed.srv.URL
	services, repos := newTestServices(t, cfg)

	if _, err := services.Events.SyncSource(context.Background(), models.EventSourceCityFeed); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A community submission must survive pruning of the feed source
	community := &models.CalendarEvent{
		Title:    "Neighborhood Cleanup",
		StartsAt: time.Now().Add(24 * time.Hour),
		Source:   models.EventSourceCommunity,
	}
	repos.Event.Create(context.Background(), community)

	feed.set(`[{"id":"rec-1","title":"Movies in the Park","start":"2026-09-05T19:30:00Z"}]`)

	result, err := services.Events.SyncSource(context.Background(), models.EventSourceCityFeed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Pruned != 1 {
		t.Errorf("Expected 1 pruned, got %d", result.Pruned)
	}
	if repos.Event.GetBySourceKey(models.EventSourceCityFeed, "rec-2") != nil {
		t.Error("Expected rec-2 to be pruned")
	}
	if repos.Event.Events[community.ID] == nil {
		t.Error("Expected community event to survive feed prune")
	}
}

func TestEventService_SyncSource_Unknown(t *testing.T) {
	services, _ := newTestServices(t, testConfig())
	if _, err := services.Events.SyncSource(context.Background(), "nope"); err == nil {
		t.Error("Expected error for unknown source")
	}
}

func TestEventService_Submit(t *testing.T) {
	services, repos := newTestServices(t, testConfig())

	ev, errs, err := services.Events.Submit(context.Background(), &models.EventSubmission{
		Title:       "Neighborhood Cleanup",
		StartsAt:    "2026-09-12T09:00:00Z",
		EndsAt:      "2026-09-12T12:00:00Z",
		Location:    "Community Park",
		CategoryKey: "community",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("Expected no validation errors, got %v", errs)
	}
	if ev.Source != models.EventSourceCommunity {
		t.Errorf("Expected community source, got %q", ev.Source)
	}
	if ev.ExternalID == "" {
		t.Error("Expected generated external id")
	}
	if ev.EndsAt == nil {
		t.Error("Expected ends_at to be set")
	}
	if len(repos.Event.Events) != 1 {
		t.Errorf("Expected 1 stored event, got %d", len(repos.Event.Events))
	}
}

func TestEventService_Submit_Invalid(t *testing.T) {
	services, repos := newTestServices(t, testConfig())

	ev, errs, err := services.Events.Submit(context.Background(), &models.EventSubmission{})
	if err != nil {
		t.Fatalf("Expected no transport error, got %v", err)
	}
	if ev != nil {
		t.Error("Expected no event for invalid submission")
	}
	if len(errs) == 0 {
		t.Error("Expected validation errors")
	}
	if len(repos.Event.Events) != 0 {
		t.Error("Expected nothing stored")
	}
}

func TestEventService_ListUpcoming_ResolvesImages(t *testing.T) {
	services, repos := newTestServices(t, testConfig())

	plain := &models.CalendarEvent{Title: "Jazz Night", CategoryKey: "music", StartsAt: time.Now().Add(time.Hour)}
	repos.Event.Create(context.Background(), plain)

	withImage := &models.CalendarEvent{Title: "Art Walk", CategoryKey: "art", StartsAt: time.Now().Add(2 * time.Hour)}
	repos.Event.Create(context.Background(), withImage)
	repos.Event.SetImage(context.Background(), withImage.ID, "https://storage.bonitaforward.com/object/public/event-images/a.jpg")

	views, err := services.Events.ListUpcoming(context.Background(), 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(views))
	}

	for _, v := range views {
		switch v.Title {
		case "Jazz Night":
			if v.Image.Type != "gradient" || !strings.Contains(v.Image.Value, "gradient(") {
				t.Errorf("Expected gradient for Jazz Night, got %+v", v.Image)
			}
		case "Art Walk":
			if v.Image.Type != "image" || !strings.HasPrefix(v.Image.Value, "https://") {
				t.Errorf("Expected stored image for Art Walk, got %+v", v.Image)
			}
		}
	}
}

func TestEventService_Vote(t *testing.T) {
	services, repos := newTestServices(t, testConfig())

	ev := &models.CalendarEvent{Title: "Jazz Night", StartsAt: time.Now().Add(time.Hour)}
	repos.Event.Create(context.Background(), ev)

	if err := services.Events.Vote(context.Background(), ev.ID, "profile-1", true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if repos.Event.Events[ev.ID].Upvotes != 1 {
		t.Errorf("Expected 1 upvote, got %d", repos.Event.Events[ev.ID].Upvotes)
	}

	// Flipping the vote replaces it, it does not accumulate
	if err := services.Events.Vote(context.Background(), ev.ID, "profile-1", false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got := repos.Event.Events[ev.ID]
	if got.Upvotes != 0 || got.Downvotes != 1 {
		t.Errorf("Expected flipped vote (0 up, 1 down), got %d up, %d down", got.Upvotes, got.Downvotes)
	}

	if err := services.Events.Vote(context.Background(), "missing", "profile-1", true); err == nil {
		t.Error("Expected error for missing event")
	}
}

func TestEventService_BackfillImages(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// download of the search hit
			w.Write([]byte("jpeg-bytes"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer storage.Close()

	// Search hits point back at the storage test server so the download
	// round trip stays local
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("q"), "Jazz Night") {
			w.Write([]byte(`{"hits":[{"largeImageURL":"` + storage.URL + `/source/jazz.jpg"}]}`))
			return
		}
		w.Write([]byte(`{"hits":[]}`))
	}))
	defer search.Close()

	cfg := testConfig()
	cfg.Images.SearchEndpoint = search.URL
	cfg.Images.SearchAPIKey = "test-key"
	cfg.Images.StorageEndpoint = storage.URL
	cfg.Images.StorageBucket = "event-images"
	cfg.Images.StorageAPIKey = "secret"
	cfg.Images.StorageHost = strings.TrimPrefix(storage.URL, "http://")
	services, repos := newTestServices(t, cfg)

	jazz := &models.CalendarEvent{Title: "Jazz Night", CategoryKey: "music", StartsAt: time.Now().Add(time.Hour)}
	repos.Event.Create(context.Background(), jazz)
	noHit := &models.CalendarEvent{Title: "Obscure Meetup", CategoryKey: "community", StartsAt: time.Now().Add(time.Hour)}
	repos.Event.Create(context.Background(), noHit)

	result, err := services.Events.BackfillImages(context.Background(), 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Scanned != 2 || result.Updated != 1 || result.Skipped != 1 || result.Failed != 0 {
		t.Errorf("Expected 2 scanned, 1 updated, 1 skipped, got %+v", result)
	}

	got := repos.Event.Events[jazz.ID]
	if got.ImageURL == nil {
		t.Fatal("Expected image URL to be persisted")
	}
	if !strings.HasPrefix(*got.ImageURL, storage.URL+"/object/public/event-images/") {
		t.Errorf("Expected owned public URL, got %q", *got.ImageURL)
	}
	if got.ImageType == nil || *got.ImageType != models.ImageTypeStored {
		t.Errorf("Expected stored image type, got %v", got.ImageType)
	}
	if repos.Event.Events[noHit.ID].ImageURL != nil {
		t.Error("Expected no image for event without search hits")
	}

	// Already-imaged events are no longer candidates
	result, err = services.Events.BackfillImages(context.Background(), 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Updated != 0 {
		t.Errorf("Expected no updates on re-run, got %d", result.Updated)
	}
}

func TestEventService_BackfillImages_Unconfigured(t *testing.T) {
	services, _ := newTestServices(t, testConfig())
	if _, err := services.Events.BackfillImages(context.Background(), 10); err == nil {
		t.Error("Expected error when search and storage are not configured")
	}
}

func TestEventService_BackfillImages_RefusesForeignHost(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte("jpeg-bytes"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer storage.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits":[{"largeImageURL":"` + storage.URL + `/source/a.jpg"}]}`))
	}))
	defer search.Close()

	cfg := testConfig()
	cfg.Images.SearchEndpoint = search.URL
	cfg.Images.SearchAPIKey = "test-key"
	cfg.Images.StorageEndpoint = storage.URL
	cfg.Images.StorageBucket = "event-images"
	cfg.Images.StorageAPIKey = "secret"
	// Owned host does not match the storage test server, so the resulting
	// URL fails the persistence policy.
	cfg.Images.StorageHost = "storage.bonitaforward.com"
	services, repos := newTestServices(t, cfg)

	ev := &models.CalendarEvent{Title: "Jazz Night", CategoryKey: "music", StartsAt: time.Now().Add(time.Hour)}
	repos.Event.Create(context.Background(), ev)

	result, err := services.Events.BackfillImages(context.Background(), 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Skipped != 1 || result.Updated != 0 {
		t.Errorf("Expected skip on policy failure, got %+v", result)
	}
	if repos.Event.Events[ev.ID].ImageURL != nil {
		t.Error("Expected no image persisted for non-owned host")
	}
}
