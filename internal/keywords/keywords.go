package keywords

import (
	"fmt"
	"strings"
)

// Category names one classified word list.
type Category string

const (
	Prohibited        Category = "prohibited"
	AgeProhibited     Category = "age_prohibited"
	RestrictedTheme   Category = "restricted_theme"
	RestrictedCountry Category = "restricted_country"
	ChildAudience     Category = "child_audience"
	ChildPlacement    Category = "child_placement"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	Prohibited,
	AgeProhibited,
	RestrictedTheme,
	RestrictedCountry,
	ChildAudience,
	ChildPlacement,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Tables is an immutable set of lowercase keyword lists. Build one with New;
// nothing mutates it afterwards, so a value can be shared by any number of
// concurrent evaluations.
type Tables struct {
	words map[Category][]string
}

// New normalizes the given lists (trim, lowercase, drop empties and
// duplicates, keep first-seen order) into a Tables value.
func New(lists map[Category][]string) (Tables, error) {
	t := Tables{words: make(map[Category][]string, len(Categories))}
	for c, ws := range lists {
		if !c.Valid() {
			return Tables{}, fmt.Errorf("unknown keyword category %q", c)
		}
		seen := make(map[string]struct{}, len(ws))
		out := make([]string, 0, len(ws))
		for _, w := range ws {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
		t.words[c] = out
	}
	return t, nil
}

// Len returns the number of keywords in a category.
func (t Tables) Len(c Category) int { return len(t.words[c]) }

// Words returns a copy of a category's keywords.
func (t Tables) Words(c Category) []string {
	return append([]string(nil), t.words[c]...)
}

// FirstMatch returns the first keyword of category c contained in text.
// text must already be lowercased.
func (t Tables) FirstMatch(c Category, text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, w := range t.words[c] {
		if strings.Contains(text, w) {
			return w, true
		}
	}
	return "", false
}

// Matches returns every keyword of category c contained in text, in table order.
// text must already be lowercased.
func (t Tables) Matches(c Category, text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, w := range t.words[c] {
		if strings.Contains(text, w) {
			out = append(out, w)
		}
	}
	return out
}

// Sizes summarizes table sizes, used when logging a load.
func (t Tables) Sizes() map[string]int {
	out := make(map[string]int, len(Categories))
	for _, c := range Categories {
		out[string(c)] = len(t.words[c])
	}
	return out
}
