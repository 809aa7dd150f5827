package keywords

// Built-in lists. Matching is plain substring, so an entry also hits every
// word containing it; leave out entries that are fragments of common words.
var defaultLists = map[Category][]string{
	Prohibited: {
		"tobacco",
		"cigarette",
		"firearm",
		"ammunition",
		"explosive",
		"narcotic",
		"cocaine",
		"counterfeit",
		"pornograph",
		"escort service",
	},
	AgeProhibited: {
		"alcohol",
		"beer",
		"wine",
		"liquor",
		"vodka",
		"whisky",
		"gambling",
		"casino",
		"betting",
		"lottery",
		"dating app",
		"dating site",
		"online dating",
	},
	RestrictedTheme: {
		"taxi",
		"vape",
		"crypto",
		"forex",
		"pharmacy",
		"prescription",
		"payday loan",
		"political",
		"weight loss",
		"cosmetic surgery",
	},
	RestrictedCountry: {
		"iran",
		"north korea",
		"syria",
		"cuba",
		"crimea",
		"russia",
		"belarus",
		"venezuela",
		"myanmar",
	},
	ChildAudience: {
		"kids",
		"child",
		"minors",
		"teens",
		"toddler",
		"under 13",
		"under 18",
	},
	ChildPlacement: {
		"school",
		"playground",
		"nursery",
		"kindergarten",
		"daycare",
		"youth centre",
		"youth center",
	},
}

// Default returns the built-in tables.
func Default() Tables {
	t, err := New(defaultLists)
	if err != nil {
		panic(err)
	}
	return t
}
