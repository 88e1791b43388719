package anamnesis

import "github.com/odontoapp/clinic-api/internal/model"

// Summary is the aggregate view of a ChangeSet consumed by the UI and
// the audit formatter.
type Summary struct {
	BySection          map[string]model.ChangeSet `json:"by_section"`
	Sections           []string                   `json:"sections"`
	SeverityCounts     model.SeverityCounts       `json:"severity_counts"`
	HasChanges         bool                       `json:"has_changes"`
	HasCriticalChanges bool                       `json:"has_critical_changes"`
}

// Aggregate groups changes by section in display order and counts them
// by severity. Per-change order within each section is preserved.
func Aggregate(changes model.ChangeSet) Summary {
	s := Summary{BySection: make(map[string]model.ChangeSet)}

	for _, c := range changes {
		s.BySection[c.Section] = append(s.BySection[c.Section], c)
		switch c.Severity {
		case model.SeverityCritical:
			s.SeverityCounts.Critical++
		case model.SeverityMedium:
			s.SeverityCounts.Medium++
		default:
			s.SeverityCounts.Low++
		}
		s.SeverityCounts.Total++
	}

	for _, sec := range model.SectionOrder {
		if _, ok := s.BySection[sec]; ok {
			s.Sections = append(s.Sections, sec)
		}
	}

	s.HasChanges = s.SeverityCounts.Total > 0
	s.HasCriticalChanges = s.SeverityCounts.Critical > 0
	return s
}
