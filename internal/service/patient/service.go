package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/repository"
	"github.com/odontoapp/clinic-api/internal/service/audit"
)

type Service struct {
	repo     repository.PatientRepository
	auditor  *audit.Service
	validate *validator.Validate
}

func NewService(repo repository.PatientRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:     repo,
		auditor:  auditor,
		validate: validator.New(),
	}
}

func (s *Service) CreatePatient(ctx context.Context, actor uuid.UUID, patient *model.Patient) error {
	if err := s.validatePatient(patient); err != nil {
		return fmt.Errorf("invalid patient data: %w", err)
	}

	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()
	patient.Status = string(model.PatientStatusActive)

	if err := s.repo.Create(ctx, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	s.auditor.Log(ctx, actor, model.AuditActionCreate, model.AuditEntityPatient, patient.ID, &audit.LogOptions{
		Changes: patient,
	})
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, actor uuid.UUID, patient *model.Patient) error {
	if err := s.validatePatient(patient); err != nil {
		return fmt.Errorf("invalid patient data: %w", err)
	}

	patient.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, patient); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	s.auditor.Log(ctx, actor, model.AuditActionUpdate, model.AuditEntityPatient, patient.ID, &audit.LogOptions{
		Changes: patient,
	})
	return nil
}

func (s *Service) DeletePatient(ctx context.Context, actor, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	s.auditor.Log(ctx, actor, model.AuditActionDelete, model.AuditEntityPatient, id, nil)
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// RecordContext derives the anamnesis context flags for a patient.
func (s *Service) RecordContext(ctx context.Context, id uuid.UUID) (model.RecordContext, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.RecordContext{}, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient.RecordContext(time.Now()), nil
}

func (s *Service) validatePatient(patient *model.Patient) error {
	return s.validate.Struct(patient)
}
