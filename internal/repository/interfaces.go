package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/odontoapp/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	AnamnesisRepository interface {
		GetByPatient(ctx context.Context, patientID uuid.UUID) (*model.Anamnesis, error)
		Upsert(ctx context.Context, record *model.Anamnesis) error
		// UpdateWithAudit persists the record update and its audit log
		// entry in one transaction.
		UpdateWithAudit(ctx context.Context, record *model.Anamnesis, log *model.AuditLog) error
	}

	EncounterRepository interface {
		Create(ctx context.Context, enc *model.Encounter) error
		Get(ctx context.Context, id uuid.UUID) (*model.Encounter, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Encounter, error)
		// FlagNextForReview marks the patient's next scheduled encounter
		// as requiring in-person re-verification.
		FlagNextForReview(ctx context.Context, patientID uuid.UUID, note string) error
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error)
		DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	CatalogRepository interface {
		ListByKind(ctx context.Context, kind model.CatalogKind) ([]*model.CatalogItem, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}
)
