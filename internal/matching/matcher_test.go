package matching

import (
	"testing"

	"github.com/bonita-forward-api/internal/models"
)

// realEstateProviders mirrors the directory's sample real-estate category
func realEstateProviders() []models.Provider {
	return []models.Provider{
		{Name: "Bonita Coastal Realty", CategoryKey: "real-estate", Rating: 4.8, Tags: []string{"buy", "3-6", "mid", "single-family"}},
		{Name: "Sweetwater Homes", CategoryKey: "real-estate", Rating: 4.9, Tags: []string{"buy"}},
		{Name: "Valley Property Group", CategoryKey: "real-estate", Rating: 4.5, Tags: []string{"sell", "luxury"}},
		{Name: "Casa Bonita Brokers", CategoryKey: "real-estate", Rating: 4.2, Tags: []string{"rent", "condo"}},
		{Name: "Hilltop Realty", CategoryKey: "real-estate", Rating: 4.7, Tags: []string{"buy", "mid"}},
		{Name: "Plaza Real Estate", CategoryKey: "real-estate", Rating: 4.0, Tags: []string{"sell", "mid"}},
	}
}

func names(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Provider.Name
	}
	return out
}

func TestRank_MoreMatchingTagsWinsOverRating(t *testing.T) {
	answers := map[string]string{"need": "buy", "budget": "mid"}

	matches := Rank(realEstateProviders(), answers)

	if len(matches) != 6 {
		t.Fatalf("Expected 6 matches, got %d", len(matches))
	}

	// Two tag hits beat one, even against a higher rating
	if matches[0].Provider.Name != "Bonita Coastal Realty" {
		t.Errorf("Expected Bonita Coastal Realty first, got %s", matches[0].Provider.Name)
	}
	if matches[0].TagHits != 2 {
		t.Errorf("Expected 2 tag hits, got %d", matches[0].TagHits)
	}

	// Hilltop (buy+mid, 4.7) above Sweetwater (buy only, 4.9)
	got := names(matches)
	hilltop, sweetwater := -1, -1
	for i, n := range got {
		switch n {
		case "Hilltop Realty":
			hilltop = i
		case "Sweetwater Homes":
			sweetwater = i
		}
	}
	if hilltop > sweetwater {
		t.Errorf("Expected Hilltop Realty (2 hits) above Sweetwater Homes (1 hit), got order %v", got)
	}
}

func TestRank_Deterministic(t *testing.T) {
	answers := map[string]string{"need": "buy", "budget": "mid"}

	first := names(Rank(realEstateProviders(), answers))
	for i := 0; i < 10; i++ {
		again := names(Rank(realEstateProviders(), answers))
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("Run %d produced different order: %v vs %v", i, first, again)
			}
		}
	}
}

func TestRank_EmptyAnswersFallsBackToRatingThenName(t *testing.T) {
	matches := Rank(realEstateProviders(), nil)

	want := []string{
		"Sweetwater Homes",      // 4.9
		"Bonita Coastal Realty", // 4.8
		"Hilltop Realty",        // 4.7
		"Valley Property Group", // 4.5
		"Casa Bonita Brokers",   // 4.2
		"Plaza Real Estate",     // 4.0
	}
	got := names(matches)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
	for _, m := range matches {
		if m.TagHits != 0 {
			t.Errorf("Expected 0 tag hits with empty answers, got %d for %s", m.TagHits, m.Provider.Name)
		}
	}
}

func TestRank_TieBreakIsLexicographicByName(t *testing.T) {
	providers := []models.Provider{
		{Name: "Zeta Services", Rating: 4.5, Tags: []string{"buy"}},
		{Name: "Alpha Services", Rating: 4.5, Tags: []string{"buy"}},
		{Name: "Mid Services", Rating: 4.5, Tags: []string{"buy"}},
	}

	matches := Rank(providers, map[string]string{"need": "buy"})

	want := []string{"Alpha Services", "Mid Services", "Zeta Services"}
	got := names(matches)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected tie-break order %v, got %v", want, got)
		}
	}
}

func TestRank_DuplicateTagsScoreOnce(t *testing.T) {
	providers := []models.Provider{
		{Name: "Honest Listing", Rating: 4.0, Tags: []string{"buy", "mid"}},
		{Name: "Padded Listing", Rating: 4.0, Tags: []string{"buy", "buy", "buy"}},
	}

	matches := Rank(providers, map[string]string{"need": "buy", "budget": "mid"})

	if matches[0].Provider.Name != "Honest Listing" {
		t.Errorf("Expected Honest Listing first, got %s", matches[0].Provider.Name)
	}
	if matches[1].TagHits != 1 {
		t.Errorf("Expected duplicate tags to score once, got %d hits", matches[1].TagHits)
	}
}

func TestRank_UnselectedOptionsDoNotScore(t *testing.T) {
	providers := []models.Provider{
		{Name: "Tagged Heavily", Rating: 3.0, Tags: []string{"sell", "luxury", "condo"}},
		{Name: "Tagged Right", Rating: 3.0, Tags: []string{"buy"}},
	}

	matches := Rank(providers, map[string]string{"need": "buy"})

	if matches[0].Provider.Name != "Tagged Right" {
		t.Errorf("Expected Tagged Right first, got %s", matches[0].Provider.Name)
	}
	if matches[1].TagHits != 0 {
		t.Errorf("Expected 0 hits for unmatched tags, got %d", matches[1].TagHits)
	}
}
