package anamnesis

import (
	"strings"

	"github.com/odontoapp/clinic-api/internal/model"
)

// User-facing messages returned by ValidateContext. They are data, not
// errors: the caller decides how to surface them.
const (
	MsgReasonRequired = "a reason is required for changes to critical fields (allergies, medications)"
	MsgSourceRequired = "an information source must be selected"

	MsgVerifyRecommended = "verification with the patient is recommended for sensitive fields"
	MsgFlaggedForReview  = "unverified critical changes will be flagged for mandatory review at the next in-person encounter"
)

// ValidateContext gates an outside-consultation submission. A reason is
// required whenever the change set touches a critical field; verification
// is recommended (never required) for medium or critical changes.
// Warnings never block; errors always do.
func ValidateContext(ec model.EditContext, changes model.ChangeSet) model.ValidationResult {
	res := model.ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	hasCritical, hasMedium := false, false
	for _, c := range changes {
		switch c.Severity {
		case model.SeverityCritical:
			hasCritical = true
		case model.SeverityMedium:
			hasMedium = true
		}
	}

	res.RequiresReason = hasCritical
	res.RequiresVerification = hasCritical || hasMedium

	if res.RequiresReason && strings.TrimSpace(ec.Reason) == "" {
		res.Errors = append(res.Errors, MsgReasonRequired)
	}

	if res.RequiresVerification && !ec.VerifiedWithPatient {
		res.Warnings = append(res.Warnings, MsgVerifyRecommended)
		if hasCritical {
			res.Warnings = append(res.Warnings, MsgFlaggedForReview)
		}
	}

	if ec.InformationSource == "" {
		res.Errors = append(res.Errors, MsgSourceRequired)
	}

	res.IsValid = len(res.Errors) == 0
	return res
}
