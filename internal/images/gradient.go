package images

import (
	"strings"
)

// gradientRule maps title/category keywords to a CSS gradient. First rule
// whose keyword appears wins, so more specific keywords come first.
type gradientRule struct {
	keywords []string
	gradient string
}

var gradientRules = []gradientRule{
	{[]string{"holiday", "christmas", "halloween", "parade"}, "linear-gradient(135deg, #c0392b 0%, #8e44ad 100%)"},
	{[]string{"music", "concert", "band", "jazz"}, "linear-gradient(135deg, #8e2de2 0%, #4a00e0 100%)"},
	{[]string{"art", "craft", "paint", "gallery"}, "linear-gradient(135deg, #f953c6 0%, #b91d73 100%)"},
	{[]string{"food", "farmers", "market", "taste", "dinner"}, "linear-gradient(135deg, #f2994a 0%, #f2c94c 100%)"},
	{[]string{"run", "race", "yoga", "fitness", "sports", "golf"}, "linear-gradient(135deg, #11998e 0%, #38ef7d 100%)"},
	{[]string{"book", "library", "story", "reading"}, "linear-gradient(135deg, #2980b9 0%, #6dd5fa 100%)"},
	{[]string{"park", "trail", "hike", "garden", "outdoor"}, "linear-gradient(135deg, #134e5e 0%, #71b280 100%)"},
	{[]string{"kids", "family", "children", "teen"}, "linear-gradient(135deg, #ff9966 0%, #ff5e62 100%)"},
}

// defaultGradient is used when no keyword matches
const defaultGradient = "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"

// GradientFor computes the client-side fallback gradient for an event from
// its category key and title. Never persisted; display only.
func GradientFor(categoryKey, title string) string {
	haystack := strings.ToLower(categoryKey + " " + title)
	for _, rule := range gradientRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.gradient
			}
		}
	}
	return defaultGradient
}
