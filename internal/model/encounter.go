package model

import (
	"time"

	"github.com/google/uuid"
)

type EncounterStatus string

const (
	EncounterScheduled  EncounterStatus = "scheduled"
	EncounterInProgress EncounterStatus = "in_progress"
	EncounterCompleted  EncounterStatus = "completed"
	EncounterCancelled  EncounterStatus = "cancelled"
)

// Encounter is a single clinical visit. ReviewRequired marks visits that
// must re-verify anamnesis changes submitted outside a consultation.
type Encounter struct {
	Base
	PatientID      uuid.UUID       `db:"patient_id" json:"patient_id"`
	ClinicianID    uuid.UUID       `db:"clinician_id" json:"clinician_id"`
	ScheduledAt    time.Time       `db:"scheduled_at" json:"scheduled_at"`
	Status         EncounterStatus `db:"status" json:"status"`
	ReviewRequired bool            `db:"review_required" json:"review_required"`
	ReviewNote     string          `db:"review_note" json:"review_note"`
	Notes          string          `db:"notes" json:"notes"`
}

type CreateEncounterRequest struct {
	ClinicianID string    `json:"clinician_id" binding:"required,uuid"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Notes       string    `json:"notes"`
}
