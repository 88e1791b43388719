package anamnesis

import (
	"fmt"
	"strings"

	"github.com/odontoapp/clinic-api/internal/model"
)

// NoChangesSummary is the sentinel returned for an empty change set.
const NoChangesSummary = "no changes"

// FormatSummary renders a change set into the flat audit string stored
// alongside the record update, e.g.
// "[allergies] tieneAlergias: modified (critical), allergies: added (critical); [habits] fuma: modified (low)".
func FormatSummary(changes model.ChangeSet) string {
	if len(changes) == 0 {
		return NoChangesSummary
	}

	agg := Aggregate(changes)
	parts := make([]string, 0, len(agg.Sections))
	for _, section := range agg.Sections {
		entries := make([]string, 0, len(agg.BySection[section]))
		for _, c := range agg.BySection[section] {
			entries = append(entries, fmt.Sprintf("%s: %s (%s)", c.FieldPath, c.ChangeType, c.Severity))
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", section, strings.Join(entries, ", ")))
	}
	return strings.Join(parts, "; ")
}
