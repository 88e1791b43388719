package anamnesis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/repository"
	"github.com/odontoapp/clinic-api/internal/service/audit"
	"github.com/odontoapp/clinic-api/pkg/messaging"
)

// TopicReviewRequired carries events for anamnesis edits that must be
// re-verified at the patient's next in-person encounter.
const TopicReviewRequired = "anamnesis.review_required"

type Service struct {
	repo          repository.AnamnesisRepository
	patientRepo   repository.PatientRepository
	encounterRepo repository.EncounterRepository
	auditor       *audit.Logger
	broker        messaging.Broker
}

func NewService(
	repo repository.AnamnesisRepository,
	patientRepo repository.PatientRepository,
	encounterRepo repository.EncounterRepository,
	auditor *audit.Logger,
	broker messaging.Broker,
) *Service {
	return &Service{
		repo:          repo,
		patientRepo:   patientRepo,
		encounterRepo: encounterRepo,
		auditor:       auditor,
		broker:        broker,
	}
}

// Get loads a patient's anamnesis. A patient without one yet gets an
// empty record rather than an error, so the intake form can start blank.
func (s *Service) Get(ctx context.Context, actor, patientID uuid.UUID) (*model.Anamnesis, error) {
	record, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get anamnesis: %w", err)
	}
	if record == nil {
		return &model.Anamnesis{PatientID: patientID}, nil
	}
	if err := record.UnmarshalCollections(); err != nil {
		return nil, fmt.Errorf("failed to unmarshal anamnesis collections: %w", err)
	}

	s.auditor.Log(ctx, actor, model.AuditActionRead, model.AuditEntityAnamnesis, record.ID, nil)
	return record, nil
}

// Upsert saves an in-consultation update. No edit context is required:
// the patient is present and the encounter itself is the audit anchor.
func (s *Service) Upsert(ctx context.Context, actor uuid.UUID, record *model.Anamnesis) error {
	if record.PatientID == uuid.Nil {
		return fmt.Errorf("patient ID is required")
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
		record.CreatedAt = time.Now()
	}
	record.Touch(actor)

	if err := record.MarshalCollections(); err != nil {
		return fmt.Errorf("failed to marshal anamnesis collections: %w", err)
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to save anamnesis: %w", err)
	}

	s.auditor.Log(ctx, actor, model.AuditActionUpdate, model.AuditEntityAnamnesis, record.ID, &audit.LogOptions{
		Changes: record,
	})
	return nil
}

// PreviewResult is the UI payload for a proposed outside-consultation
// edit: the change set, its aggregate view, and the gate decision.
type PreviewResult struct {
	Changes    model.ChangeSet        `json:"changes"`
	Summary    Summary                `json:"summary"`
	Validation model.ValidationResult `json:"validation"`
}

// Preview computes what submitting the proposed record would do, without
// persisting anything.
func (s *Service) Preview(ctx context.Context, patientID uuid.UUID, proposed *model.Anamnesis, ec model.EditContext) (*PreviewResult, error) {
	initial, rctx, err := s.loadForEdit(ctx, patientID)
	if err != nil {
		return nil, err
	}

	changes := Diff(initial, proposed, rctx)
	return &PreviewResult{
		Changes:    changes,
		Summary:    Aggregate(changes),
		Validation: ValidateContext(ec, changes),
	}, nil
}

// SubmitResult reports the outcome of an outside-consultation submission.
type SubmitResult struct {
	NoChanges    bool                   `json:"no_changes"`
	Summary      Summary                `json:"summary"`
	Validation   model.ValidationResult `json:"validation"`
	AuditSummary string                 `json:"audit_summary,omitempty"`
}

// SubmitOutsideConsultation runs the full edit workflow: diff, gate on
// the edit context, then persist record + audit entry atomically. An
// empty diff short-circuits before the context is ever evaluated. A
// failed validation returns the result without error; the caller
// re-collects the context and retries.
func (s *Service) SubmitOutsideConsultation(ctx context.Context, actor, patientID uuid.UUID, proposed *model.Anamnesis, ec model.EditContext) (*SubmitResult, error) {
	initial, rctx, err := s.loadForEdit(ctx, patientID)
	if err != nil {
		return nil, err
	}

	session := NewEditSession(initial, rctx, &txSaver{svc: s, actor: actor, patientID: patientID})
	session.Stage(proposed)

	summary, err := session.RequestSubmit()
	if err == ErrNoPendingChanges {
		return &SubmitResult{NoChanges: true, Summary: summary}, nil
	}
	if err != nil {
		return nil, err
	}

	validation, err := session.Confirm(ctx, ec)
	if err != nil {
		return nil, err
	}
	res := &SubmitResult{Summary: summary, Validation: validation}
	if !validation.IsValid {
		return res, nil
	}
	res.AuditSummary = FormatSummary(session.Changes())

	if summary.HasCriticalChanges && !ec.VerifiedWithPatient {
		s.flagForReview(ctx, patientID, res.AuditSummary)
	}
	return res, nil
}

func (s *Service) loadForEdit(ctx context.Context, patientID uuid.UUID) (*model.Anamnesis, model.RecordContext, error) {
	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, model.RecordContext{}, fmt.Errorf("failed to get patient: %w", err)
	}
	rctx := patient.RecordContext(time.Now())

	initial, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, model.RecordContext{}, fmt.Errorf("failed to get anamnesis: %w", err)
	}
	if initial == nil {
		initial = &model.Anamnesis{PatientID: patientID}
	} else if err := initial.UnmarshalCollections(); err != nil {
		return nil, model.RecordContext{}, fmt.Errorf("failed to unmarshal anamnesis collections: %w", err)
	}
	return initial, rctx, nil
}

// txSaver is the persistence collaborator backing an edit session: one
// transaction writing the updated record and its audit log entry.
type txSaver struct {
	svc       *Service
	actor     uuid.UUID
	patientID uuid.UUID
}

func (t *txSaver) SaveOutsideConsultationEdit(ctx context.Context, sub *Submission) error {
	record := sub.Record
	record.PatientID = t.patientID
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
		record.CreatedAt = time.Now()
	}
	record.Touch(t.actor)
	if err := record.MarshalCollections(); err != nil {
		return fmt.Errorf("failed to marshal anamnesis collections: %w", err)
	}

	counts := Aggregate(sub.Changes).SeverityCounts
	changesJSON, err := json.Marshal(sub.Changes)
	if err != nil {
		return fmt.Errorf("failed to marshal change set: %w", err)
	}
	metadata, err := json.Marshal(map[string]interface{}{
		"is_outside_consultation": true,
		"information_source":      sub.EditContext.InformationSource,
		"verified_with_patient":   sub.EditContext.VerifiedWithPatient,
		"reason":                  sub.EditContext.Reason,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal edit context: %w", err)
	}

	logEntry := &model.AuditLog{
		ID:            uuid.New(),
		UserID:        t.actor,
		Action:        model.AuditActionOutsideConsultEdit,
		EntityType:    model.AuditEntityAnamnesis,
		EntityID:      record.ID,
		Summary:       sub.AuditSummary,
		Changes:       changesJSON,
		Metadata:      metadata,
		CriticalCount: counts.Critical,
		MediumCount:   counts.Medium,
		LowCount:      counts.Low,
		CreatedAt:     time.Now(),
	}

	return t.svc.repo.UpdateWithAudit(ctx, record, logEntry)
}

// flagForReview marks the next encounter and publishes the review event.
// Both are best-effort: the edit is already committed.
func (s *Service) flagForReview(ctx context.Context, patientID uuid.UUID, summary string) {
	if err := s.encounterRepo.FlagNextForReview(ctx, patientID, summary); err != nil {
		log.Error().Err(err).Str("patient_id", patientID.String()).Msg("failed to flag encounter for review")
	}
	if s.broker == nil {
		return
	}
	event := map[string]interface{}{
		"patient_id": patientID,
		"summary":    summary,
		"flagged_at": time.Now(),
	}
	if err := s.broker.Publish(ctx, TopicReviewRequired, event); err != nil {
		log.Error().Err(err).Str("patient_id", patientID.String()).Msg("failed to publish review event")
	}
}
