package validation

import (
	"testing"

	"github.com/bonita-forward-api/internal/models"
)

func fieldErrors(errs []ValidationError) map[string]bool {
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	return fields
}

func TestValidateProviderRow(t *testing.T) {
	tests := []struct {
		name       string
		row        models.ProviderCSV
		wantFields []string
	}{
		{
			name: "valid row",
			row: models.ProviderCSV{
				Name:        "Bonita Coastal Realty",
				CategoryKey: "real-estate",
				Rating:      "4.8",
				Email:       "hello@bonitacoastal.com",
				Website:     "https://bonitacoastal.com",
			},
			wantFields: nil,
		},
		{
			name:       "missing name and category",
			row:        models.ProviderCSV{},
			wantFields: []string{"name", "category_key"},
		},
		{
			name:       "bad category key format",
			row:        models.ProviderCSV{Name: "Test", CategoryKey: "Real Estate"},
			wantFields: []string{"category_key"},
		},
		{
			name:       "unknown category",
			row:        models.ProviderCSV{Name: "Test", CategoryKey: "pet-grooming"},
			wantFields: []string{"category_key"},
		},
		{
			name:       "non-numeric rating",
			row:        models.ProviderCSV{Name: "Test", CategoryKey: "real-estate", Rating: "great"},
			wantFields: []string{"rating"},
		},
		{
			name:       "rating out of range",
			row:        models.ProviderCSV{Name: "Test", CategoryKey: "real-estate", Rating: "5.5"},
			wantFields: []string{"rating"},
		},
		{
			name:       "bad email",
			row:        models.ProviderCSV{Name: "Test", CategoryKey: "real-estate", Email: "not-an-email"},
			wantFields: []string{"email"},
		},
		{
			name:       "bad website scheme",
			row:        models.ProviderCSV{Name: "Test", CategoryKey: "real-estate", Website: "ftp://example.com"},
			wantFields: []string{"website"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.SetCategoryKeys([]string{"real-estate", "home-services"})

			errs := v.ValidateProviderRow(&tt.row, 2)

			if len(tt.wantFields) == 0 {
				if len(errs) != 0 {
					t.Fatalf("Expected no errors, got %v", errs)
				}
				return
			}
			got := fieldErrors(errs)
			for _, f := range tt.wantFields {
				if !got[f] {
					t.Errorf("Expected error on field %q, got %v", f, errs)
				}
			}
			for _, e := range errs {
				if e.Line != 2 {
					t.Errorf("Expected line 2 on error, got %d", e.Line)
				}
			}
		})
	}
}

func TestValidateProviderRow_DuplicateByNormalizedName(t *testing.T) {
	v := NewValidator()
	v.SetCategoryKeys([]string{"real-estate"})
	v.AddNormalizedName("real-estate", "Bonita Coastal Realty")

	// Casing and whitespace differences still collide
	row := models.ProviderCSV{Name: "  bonita   COASTAL realty ", CategoryKey: "real-estate"}
	errs := v.ValidateProviderRow(&row, 5)
	if !fieldErrors(errs)["name"] {
		t.Errorf("Expected duplicate name error, got %v", errs)
	}

	// Same name in a different category is fine
	other := models.ProviderCSV{Name: "Bonita Coastal Realty", CategoryKey: "real-estate"}
	v2 := NewValidator()
	v2.SetCategoryKeys([]string{"real-estate", "home-services"})
	v2.AddNormalizedName("home-services", "Bonita Coastal Realty")
	if errs := v2.ValidateProviderRow(&other, 6); len(errs) != 0 {
		t.Errorf("Expected no errors across categories, got %v", errs)
	}
}

func TestValidateEventSubmission(t *testing.T) {
	tests := []struct {
		name       string
		sub        models.EventSubmission
		wantFields []string
	}{
		{
			name: "valid submission",
			sub: models.EventSubmission{
				Title:       "Neighborhood Cleanup",
				StartsAt:    "2026-09-12T09:00:00Z",
				CategoryKey: "community",
			},
			wantFields: nil,
		},
		{
			name: "bare date accepted",
			sub: models.EventSubmission{
				Title:       "Neighborhood Cleanup",
				StartsAt:    "2026-09-12",
				CategoryKey: "community",
			},
			wantFields: nil,
		},
		{
			name:       "missing everything",
			sub:        models.EventSubmission{},
			wantFields: []string{"title", "starts_at", "category_key"},
		},
		{
			name: "bad timestamps",
			sub: models.EventSubmission{
				Title:       "Neighborhood Cleanup",
				StartsAt:    "tomorrow",
				EndsAt:      "later",
				CategoryKey: "community",
			},
			wantFields: []string{"starts_at", "ends_at"},
		},
		{
			name: "unknown category",
			sub: models.EventSubmission{
				Title:       "Neighborhood Cleanup",
				StartsAt:    "2026-09-12",
				CategoryKey: "nope",
			},
			wantFields: []string{"category_key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.SetCategoryKeys([]string{"community", "library"})

			errs := v.ValidateEventSubmission(&tt.sub)

			if len(tt.wantFields) == 0 {
				if len(errs) != 0 {
					t.Fatalf("Expected no errors, got %v", errs)
				}
				return
			}
			got := fieldErrors(errs)
			for _, f := range tt.wantFields {
				if !got[f] {
					t.Errorf("Expected error on field %q, got %v", f, errs)
				}
			}
		})
	}
}

func TestValidateEventSubmission_TitleTooLong(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	v := NewValidator()
	errs := v.ValidateEventSubmission(&models.EventSubmission{
		Title:       string(long),
		StartsAt:    "2026-09-12",
		CategoryKey: "community",
	})
	if !fieldErrors(errs)["title"] {
		t.Errorf("Expected title length error, got %v", errs)
	}
}

func TestValidateApplication(t *testing.T) {
	v := NewValidator()
	v.SetCategoryKeys([]string{"restaurants-cafes"})

	valid := models.BusinessApplication{
		BusinessName: "Plaza Tacos",
		ContactName:  "Alex Rivera",
		Email:        "alex@plazatacos.com",
		CategoryKey:  "restaurants-cafes",
	}
	if errs := v.ValidateApplication(&valid); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}

	empty := models.BusinessApplication{}
	got := fieldErrors(v.ValidateApplication(&empty))
	for _, f := range []string{"business_name", "contact_name", "email"} {
		if !got[f] {
			t.Errorf("Expected error on field %q", f)
		}
	}

	badEmail := valid
	badEmail.Email = "nope"
	if !fieldErrors(v.ValidateApplication(&badEmail))["email"] {
		t.Error("Expected email format error")
	}

	badCategory := valid
	badCategory.CategoryKey = "unlisted"
	if !fieldErrors(v.ValidateApplication(&badCategory))["category_key"] {
		t.Error("Expected unknown category error")
	}
}

func TestParseTimestamp(t *testing.T) {
	if _, err := ParseTimestamp("2026-09-12T09:00:00Z"); err != nil {
		t.Errorf("Expected RFC 3339 to parse, got %v", err)
	}
	if _, err := ParseTimestamp("2026-09-12"); err != nil {
		t.Errorf("Expected bare date to parse, got %v", err)
	}
	if _, err := ParseTimestamp("09/12/2026"); err == nil {
		t.Error("Expected US-style date to be rejected")
	}
}
