package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/repository"
	"github.com/odontoapp/clinic-api/internal/service/audit"
)

type Service struct {
	repo    repository.EncounterRepository
	auditor *audit.Service
}

func NewService(repo repository.EncounterRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, actor uuid.UUID, enc *model.Encounter) error {
	if enc.PatientID == uuid.Nil {
		return fmt.Errorf("patient ID is required")
	}
	if enc.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled time is required")
	}

	enc.ID = uuid.New()
	enc.CreatedAt = time.Now()
	enc.UpdatedAt = time.Now()
	if enc.Status == "" {
		enc.Status = model.EncounterScheduled
	}

	if err := s.repo.Create(ctx, enc); err != nil {
		return fmt.Errorf("failed to create encounter: %w", err)
	}

	s.auditor.Log(ctx, actor, model.AuditActionCreate, model.AuditEntityEncounter, enc.ID, nil)
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Encounter, error) {
	encounters, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list encounters: %w", err)
	}
	return encounters, nil
}
