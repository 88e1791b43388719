package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	ClinicID      uuid.UUID       `json:"clinic_id" db:"clinic_id"`
	Action        string          `json:"action" db:"action"`
	EntityType    string          `json:"entity_type" db:"entity_type"`
	EntityID      uuid.UUID       `json:"entity_id" db:"entity_id"`
	Summary       string          `json:"summary" db:"summary"`
	Changes       json.RawMessage `json:"changes" db:"changes"`
	Metadata      json.RawMessage `json:"metadata" db:"metadata"`
	IPAddress     string          `json:"ip_address" db:"ip_address"`
	UserAgent     string          `json:"user_agent" db:"user_agent"`
	CriticalCount int             `json:"critical_count" db:"critical_count"`
	MediumCount   int             `json:"medium_count" db:"medium_count"`
	LowCount      int             `json:"low_count" db:"low_count"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

const (
	// Action types
	AuditActionCreate             = "create"
	AuditActionRead               = "read"
	AuditActionUpdate             = "update"
	AuditActionDelete             = "delete"
	AuditActionOutsideConsultEdit = "outside_consultation_edit"

	// Entity types
	AuditEntityPatient   = "patient"
	AuditEntityAnamnesis = "anamnesis"
	AuditEntityEncounter = "encounter"
	AuditEntityUser      = "user"
)

type AuditFilters struct {
	UserID     uuid.UUID `form:"user_id"`
	EntityType string    `form:"entity_type"`
	EntityID   uuid.UUID `form:"entity_id"`
	StartDate  time.Time `form:"start_date"`
	EndDate    time.Time `form:"end_date"`
}
