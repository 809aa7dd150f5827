package engine

import (
	"fmt"
	"strings"

	"creative-approval-engine/internal/keywords"
)

// PlacementNearSchool is the placement value that always counts as child-related.
const PlacementNearSchool = "near_school"

// EvaluateFilename scans the filename in priority order. A prohibited term
// rejects immediately; restricted themes and countries each add a review reason.
func EvaluateFilename(tb keywords.Tables, filename string) Result {
	text := strings.ToLower(filename)

	if w, ok := tb.FirstMatch(keywords.Prohibited, text); ok {
		return Result{Status: StatusRejected, Reasons: []string{"Prohibited term in filename: " + w}}
	}

	var reasons []string
	for _, w := range tb.Matches(keywords.RestrictedTheme, text) {
		reasons = append(reasons, "Restricted term in filename: "+w)
	}
	for _, w := range tb.Matches(keywords.RestrictedCountry, text) {
		reasons = append(reasons, "Restricted country name in filename: "+w)
	}

	if len(reasons) > 0 {
		return Result{Status: StatusRequiresReview, Reasons: reasons}
	}
	return approved()
}

// EvaluateMetadata applies the placement-context policy. Child signals are
// checked first: paired with an age-prohibited category they reject, alone
// they force review and end the scan. After that a prohibited or
// age-prohibited term anywhere rejects, restricted themes anywhere and
// restricted countries in the market field add review reasons.
func EvaluateMetadata(tb keywords.Tables, m Metadata) Result {
	audience := strings.ToLower(strings.TrimSpace(m.Audience))
	placement := strings.ToLower(strings.TrimSpace(m.Placement))
	category := strings.ToLower(m.Category)
	market := strings.ToLower(m.Market)

	if label, value, ok := childSignal(tb, audience, placement, m); ok {
		if _, bad := tb.FirstMatch(keywords.AgeProhibited, category); bad {
			return Result{
				Status:  StatusRejected,
				Reasons: []string{fmt.Sprintf("Child-related %s found: %s. Category not allowed.", label, value)},
			}
		}
		return Result{
			Status:  StatusRequiresReview,
			Reasons: []string{fmt.Sprintf("Child-related %s found: %s", label, value)},
		}
	}

	combined := combinedText(m)

	if w, ok := tb.FirstMatch(keywords.Prohibited, combined); ok {
		return Result{Status: StatusRejected, Reasons: []string{"Prohibited term found in metadata: " + w}}
	}
	if w, ok := tb.FirstMatch(keywords.AgeProhibited, combined); ok {
		return Result{Status: StatusRejected, Reasons: []string{"Age-prohibited term found in metadata: " + w}}
	}

	var reasons []string
	for _, w := range tb.Matches(keywords.RestrictedTheme, combined) {
		reasons = append(reasons, "Restricted term found in metadata: "+w)
	}
	for _, w := range tb.Matches(keywords.RestrictedCountry, market) {
		reasons = append(reasons, "Restricted country found in metadata: "+w)
	}

	if len(reasons) > 0 {
		return Result{Status: StatusRequiresReview, Reasons: reasons}
	}
	return approved()
}

// childSignal reports which field marks the context as child-related.
// Audience wins when both do.
func childSignal(tb keywords.Tables, audience, placement string, m Metadata) (label, value string, ok bool) {
	if _, hit := tb.FirstMatch(keywords.ChildAudience, audience); hit {
		return "audience", strings.TrimSpace(m.Audience), true
	}
	if placement == PlacementNearSchool {
		return "placement", strings.TrimSpace(m.Placement), true
	}
	if _, hit := tb.FirstMatch(keywords.ChildPlacement, placement); hit {
		return "placement", strings.TrimSpace(m.Placement), true
	}
	return "", "", false
}

func combinedText(m Metadata) string {
	parts := make([]string, 0, 4)
	for _, f := range []string{m.Market, m.Placement, m.Audience, m.Category} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}
