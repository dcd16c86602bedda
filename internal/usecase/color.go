package usecase

import "strings"

// colorGroups maps a canonical color to the synonyms that normalize to it, in lookup order
var colorGroups = []struct {
	name     string
	synonyms []string
}{
	{"black", []string{"black", "charcoal"}},
	{"white", []string{"white", "ivory", "cream"}},
	{"red", []string{"red", "maroon", "burgundy"}},
	{"blue", []string{"blue", "navy", "denim", "teal"}},
	{"green", []string{"green", "olive"}},
	{"yellow", []string{"yellow", "mustard"}},
	{"pink", []string{"pink", "rose"}},
	{"brown", []string{"brown", "tan", "beige"}},
	{"gray", []string{"gray", "grey", "silver"}},
	{"orange", []string{"orange"}},
	{"purple", []string{"purple", "violet"}},
}

var complementaryColors = [][2]string{
	{"blue", "white"},
	{"black", "white"},
	{"brown", "beige"},
}

// NormalizeColor maps a color name to its canonical group. Unknown colors fall back to
// their first whitespace-separated token, lower-cased.
func NormalizeColor(name string) string {
	if group := DetectColor(name); group != "" {
		return group
	}
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// DetectColor returns the canonical color mentioned anywhere in text, or "" when none is
func DetectColor(text string) string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return ""
	}
	for _, g := range colorGroups {
		for _, syn := range g.synonyms {
			if strings.Contains(lower, syn) {
				return g.name
			}
		}
	}
	return ""
}

// ColorCompatibility scores two colors: 0.2 for the same canonical color,
// 0.1 for a complementary pair, otherwise 0. Either color missing scores 0.
func ColorCompatibility(a, b string) float64 {
	a, b = NormalizeColor(a), NormalizeColor(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 0.2
	}
	for _, pair := range complementaryColors {
		if (a == pair[0] && b == pair[1]) || (a == pair[1] && b == pair[0]) {
			return 0.1
		}
	}
	return 0
}
