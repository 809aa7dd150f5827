package keywords

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads keyword lists from a YAML document keyed by category name:
//
//	prohibited: [tobacco, firearm]
//	restricted_country: [iran]
//
// Categories present in the file replace the built-in list; absent ones keep it.
func LoadFile(path string) (Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tables{}, fmt.Errorf("open keyword file %s: %w", path, err)
	}
	defer f.Close()

	var doc map[string][]string
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return Tables{}, fmt.Errorf("decode keyword file %s: %w", path, err)
	}

	lists := make(map[Category][]string, len(defaultLists))
	for c, ws := range defaultLists {
		lists[c] = ws
	}
	for name, ws := range doc {
		lists[Category(name)] = ws
	}
	return New(lists)
}
