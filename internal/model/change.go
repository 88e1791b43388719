package model

// Severity classifies how clinically sensitive a changed field is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ChangeType describes how a field differs between two record snapshots.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// Section keys for grouping changes. SectionOrder fixes display order.
const (
	SectionGeneral        = "general"
	SectionAllergies      = "allergies"
	SectionMedications    = "medications"
	SectionMedicalHistory = "medical_history"
	SectionHabits         = "habits"
	SectionWomenSpecific  = "women_specific"
	SectionPediatric      = "pediatric"
	SectionOther          = "other"
)

// SectionOrder is the fixed display priority for sections. It affects
// presentation and the audit summary only, never validation outcomes.
var SectionOrder = []string{
	SectionGeneral,
	SectionAllergies,
	SectionMedications,
	SectionMedicalHistory,
	SectionHabits,
	SectionWomenSpecific,
	SectionPediatric,
	SectionOther,
}

// FieldChange is one detected difference between two record snapshots.
// It is transient: only the derived audit summary is persisted.
type FieldChange struct {
	FieldPath  string      `json:"field_path"`
	FieldLabel string      `json:"field_label"`
	OldValue   interface{} `json:"old_value"`
	NewValue   interface{} `json:"new_value"`
	ChangeType ChangeType  `json:"change_type"`
	Severity   Severity    `json:"severity"`
	Section    string      `json:"section"`
}

// ChangeSet is the ordered output of one diff computation. It is not
// mutated after computation; a new edit requires a new diff.
type ChangeSet []FieldChange

// SeverityCounts aggregates a ChangeSet by severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// InformationSource records how the clinic learned about an
// outside-consultation change.
type InformationSource string

const (
	SourceInPerson      InformationSource = "IN_PERSON"
	SourcePhone         InformationSource = "PHONE"
	SourceEmail         InformationSource = "EMAIL"
	SourceDocument      InformationSource = "DOCUMENT"
	SourcePatientPortal InformationSource = "PATIENT_PORTAL"
	SourceOther         InformationSource = "OTHER"
)

// EditContext is the user-supplied audit metadata for an
// outside-consultation submission.
type EditContext struct {
	Reason              string            `json:"reason"`
	InformationSource   InformationSource `json:"information_source" binding:"omitempty,oneof=IN_PERSON PHONE EMAIL DOCUMENT PATIENT_PORTAL OTHER"`
	VerifiedWithPatient bool              `json:"verified_with_patient"`
}

// ValidationResult is the deterministic outcome of gating an EditContext
// against a ChangeSet. Errors block submission; warnings never do.
type ValidationResult struct {
	IsValid              bool     `json:"is_valid"`
	Errors               []string `json:"errors"`
	Warnings             []string `json:"warnings"`
	RequiresReason       bool     `json:"requires_reason"`
	RequiresVerification bool     `json:"requires_verification"`
}
