package matching

import (
	"sort"

	"github.com/bonita-forward-api/internal/models"
)

// Match pairs a provider with the number of its tags hit by a funnel
// answer set.
type Match struct {
	Provider models.Provider `json:"provider"`
	TagHits  int             `json:"tag_hits"`
}

// Rank orders the providers of one category for a funnel session.
//
// answers maps question id to the selected option id. A provider's score is
// the count of its distinct tags present in the selected-option set. Order:
// score descending, then rating descending, then name ascending. An empty
// answer set degrades to rating/name order. Pure and deterministic: equal
// inputs always produce the same output order.
func Rank(providers []models.Provider, answers map[string]string) []Match {
	selected := make(map[string]struct{}, len(answers))
	for _, option := range answers {
		if option != "" {
			selected[option] = struct{}{}
		}
	}

	matches := make([]Match, 0, len(providers))
	for _, p := range providers {
		matches = append(matches, Match{Provider: p, TagHits: countHits(p.Tags, selected)})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		if a.TagHits != b.TagHits {
			return a.TagHits > b.TagHits
		}
		if a.Provider.Rating != b.Provider.Rating {
			return a.Provider.Rating > b.Provider.Rating
		}
		return a.Provider.Name < b.Provider.Name
	})

	return matches
}

// countHits counts distinct tags present in the selected set. A tag listed
// twice on a provider still scores once.
func countHits(tags []string, selected map[string]struct{}) int {
	seen := make(map[string]struct{}, len(tags))
	hits := 0
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, ok := selected[tag]; ok {
			hits++
		}
	}
	return hits
}
