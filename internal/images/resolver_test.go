package images

import (
	"strings"
	"testing"

	"github.com/bonita-forward-api/internal/models"
)

func strPtr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		event     models.CalendarEvent
		wantType  ResolvedType
		wantValue string
	}{
		{
			name: "stored image wins",
			event: models.CalendarEvent{
				Title:       "Summer Concert",
				CategoryKey: "music",
				ImageURL:    strPtr("https://storage.bonitaforward.com/object/public/events/abc.jpg"),
				ImageType:   strPtr(models.ImageTypeStored),
			},
			wantType:  TypeImage,
			wantValue: "https://storage.bonitaforward.com/object/public/events/abc.jpg",
		},
		{
			name: "no image falls back to gradient",
			event: models.CalendarEvent{
				Title:       "Summer Concert",
				CategoryKey: "music",
			},
			wantType:  TypeGradient,
			wantValue: GradientFor("music", "Summer Concert"),
		},
		{
			name: "non-http stored value falls back to gradient",
			event: models.CalendarEvent{
				Title:       "Summer Concert",
				CategoryKey: "music",
				ImageURL:    strPtr("linear-gradient(135deg, #000 0%, #fff 100%)"),
				ImageType:   strPtr(models.ImageTypeStored),
			},
			wantType: TypeGradient,
		},
		{
			name: "empty image url falls back to gradient",
			event: models.CalendarEvent{
				Title:       "Summer Concert",
				CategoryKey: "music",
				ImageURL:    strPtr(""),
			},
			wantType: TypeGradient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(&tt.event)
			if got.Type != tt.wantType {
				t.Errorf("Expected type %q, got %q", tt.wantType, got.Type)
			}
			if tt.wantValue != "" && got.Value != tt.wantValue {
				t.Errorf("Expected value %q, got %q", tt.wantValue, got.Value)
			}
		})
	}
}

func TestResolve_TypeAndValueAreConsistent(t *testing.T) {
	events := []models.CalendarEvent{
		{Title: "Jazz Night", CategoryKey: "music"},
		{Title: "Farmers Market", CategoryKey: "community"},
		{Title: "Stored", CategoryKey: "community", ImageURL: strPtr("https://storage.host/x.jpg"), ImageType: strPtr(models.ImageTypeStored)},
	}

	for _, e := range events {
		r := Resolve(&e)
		switch r.Type {
		case TypeImage:
			if !strings.HasPrefix(r.Value, "http") {
				t.Errorf("Image value is not a URL: %q", r.Value)
			}
		case TypeGradient:
			if !strings.Contains(r.Value, "gradient(") {
				t.Errorf("Gradient value is not a gradient: %q", r.Value)
			}
		default:
			t.Errorf("Unexpected resolved type %q", r.Type)
		}
	}
}

func TestCanPersistURL(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		ownedHost string
		want      bool
	}{
		{"owned https url", "https://storage.bonitaforward.com/object/public/events/a.jpg", "storage.bonitaforward.com", true},
		{"owned host case insensitive", "https://Storage.BonitaForward.com/a.jpg", "storage.bonitaforward.com", true},
		{"gradient string rejected", "linear-gradient(135deg, #667eea 0%, #764ba2 100%)", "", false},
		{"gradient on owned host rejected", "https://storage.bonitaforward.com/linear-gradient(x)", "storage.bonitaforward.com", false},
		{"third-party host rejected", "https://cdn.pixabay.com/photo/a.jpg", "storage.bonitaforward.com", false},
		{"empty owned host allows any http host", "http://localhost:9000/a.jpg", "", true},
		{"data url rejected", "data:image/png;base64,AAAA", "", false},
		{"relative path rejected", "/images/a.jpg", "", false},
		{"empty string rejected", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPersistURL(tt.raw, tt.ownedHost); got != tt.want {
				t.Errorf("CanPersistURL(%q, %q) = %v, want %v", tt.raw, tt.ownedHost, got, tt.want)
			}
		})
	}
}

func TestGradientFor(t *testing.T) {
	tests := []struct {
		name        string
		categoryKey string
		title       string
		keyword     string
	}{
		{"title keyword", "community", "Holiday Parade Downtown", "holiday"},
		{"category keyword", "music", "Evening at the Plaza", "music"},
		{"library keyword", "community", "Story Time at the Library", "library"},
		{"case insensitive", "community", "FARMERS Market", "farmers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradientFor(tt.categoryKey, tt.title)
			if got == defaultGradient {
				t.Errorf("Expected keyword %q to pick a themed gradient, got default", tt.keyword)
			}
			if !strings.HasPrefix(got, "linear-gradient(") {
				t.Errorf("Expected a CSS gradient, got %q", got)
			}
		})
	}
}

func TestGradientFor_DefaultAndStability(t *testing.T) {
	got := GradientFor("community", "Town Hall Meeting")
	if got != defaultGradient {
		t.Errorf("Expected default gradient for unmatched keywords, got %q", got)
	}

	// Same input always yields the same gradient
	a := GradientFor("music", "Jazz in the Park")
	b := GradientFor("music", "Jazz in the Park")
	if a != b {
		t.Errorf("Gradient not stable: %q vs %q", a, b)
	}
}
