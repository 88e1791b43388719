package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/repository"
	apperrors "github.com/odontoapp/clinic-api/pkg/errors"
)

type encounterRepository struct {
	BaseRepository
}

func NewEncounterRepository(base BaseRepository) repository.EncounterRepository {
	return &encounterRepository{base}
}

func (r *encounterRepository) Create(ctx context.Context, enc *model.Encounter) error {
	query := `
		INSERT INTO encounters (
			id, patient_id, clinician_id, scheduled_at, status,
			review_required, review_note, notes, created_at, updated_at
		) VALUES (
			:id, :patient_id, :clinician_id, :scheduled_at, :status,
			:review_required, :review_note, :notes, :created_at, :updated_at
		)
	`
	if _, err := r.GetDB().NamedExecContext(ctx, query, enc); err != nil {
		return fmt.Errorf("failed to insert encounter: %w", err)
	}
	return nil
}

func (r *encounterRepository) Get(ctx context.Context, id uuid.UUID) (*model.Encounter, error) {
	var enc model.Encounter
	query := `SELECT * FROM encounters WHERE id = $1 AND deleted_at IS NULL`
	if err := r.GetDB().GetContext(ctx, &enc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("encounter", err)
		}
		return nil, fmt.Errorf("failed to get encounter: %w", err)
	}
	return &enc, nil
}

func (r *encounterRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Encounter, error) {
	var encounters []*model.Encounter
	query := `
		SELECT * FROM encounters
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY scheduled_at DESC
	`
	if err := r.GetDB().SelectContext(ctx, &encounters, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list encounters: %w", err)
	}
	return encounters, nil
}

// FlagNextForReview marks the patient's next scheduled encounter. No
// scheduled encounter is not an error: the flag will be applied when
// the next visit is booked, via the stored review note on the most
// recent audit entry.
func (r *encounterRepository) FlagNextForReview(ctx context.Context, patientID uuid.UUID, note string) error {
	query := `
		UPDATE encounters SET review_required = TRUE, review_note = $2, updated_at = NOW()
		WHERE id = (
			SELECT id FROM encounters
			WHERE patient_id = $1 AND status = 'scheduled' AND scheduled_at > NOW() AND deleted_at IS NULL
			ORDER BY scheduled_at ASC
			LIMIT 1
		)
	`
	if _, err := r.GetDB().ExecContext(ctx, query, patientID, note); err != nil {
		return fmt.Errorf("failed to flag encounter for review: %w", err)
	}
	return nil
}
