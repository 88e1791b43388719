package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/repository"
)

type anamnesisRepository struct {
	BaseRepository
}

func NewAnamnesisRepository(base BaseRepository) repository.AnamnesisRepository {
	return &anamnesisRepository{base}
}

func (r *anamnesisRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) (*model.Anamnesis, error) {
	var record model.Anamnesis
	query := `SELECT * FROM anamnesis WHERE patient_id = $1 AND deleted_at IS NULL`
	if err := r.GetDB().GetContext(ctx, &record, query, patientID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get anamnesis: %w", err)
	}
	return &record, nil
}

const upsertQuery = `
	INSERT INTO anamnesis (
		id, patient_id, motivo_consulta, dolor_intensidad,
		tiene_alergias, allergies,
		tiene_medicacion_actual, medications,
		tiene_enfermedades_cronicas, antecedents,
		fuma, consume_alcohol, bruxismo, cepillados_dia, usa_hilo_dental,
		women_specific, tiene_habitos_succion, lactancia_registrada,
		updated_by, created_at, updated_at
	) VALUES (
		:id, :patient_id, :motivo_consulta, :dolor_intensidad,
		:tiene_alergias, :allergies,
		:tiene_medicacion_actual, :medications,
		:tiene_enfermedades_cronicas, :antecedents,
		:fuma, :consume_alcohol, :bruxismo, :cepillados_dia, :usa_hilo_dental,
		:women_specific, :tiene_habitos_succion, :lactancia_registrada,
		:updated_by, :created_at, :updated_at
	)
	ON CONFLICT (patient_id) DO UPDATE SET
		motivo_consulta = EXCLUDED.motivo_consulta,
		dolor_intensidad = EXCLUDED.dolor_intensidad,
		tiene_alergias = EXCLUDED.tiene_alergias,
		allergies = EXCLUDED.allergies,
		tiene_medicacion_actual = EXCLUDED.tiene_medicacion_actual,
		medications = EXCLUDED.medications,
		tiene_enfermedades_cronicas = EXCLUDED.tiene_enfermedades_cronicas,
		antecedents = EXCLUDED.antecedents,
		fuma = EXCLUDED.fuma,
		consume_alcohol = EXCLUDED.consume_alcohol,
		bruxismo = EXCLUDED.bruxismo,
		cepillados_dia = EXCLUDED.cepillados_dia,
		usa_hilo_dental = EXCLUDED.usa_hilo_dental,
		women_specific = EXCLUDED.women_specific,
		tiene_habitos_succion = EXCLUDED.tiene_habitos_succion,
		lactancia_registrada = EXCLUDED.lactancia_registrada,
		updated_by = EXCLUDED.updated_by,
		updated_at = EXCLUDED.updated_at
`

func (r *anamnesisRepository) Upsert(ctx context.Context, record *model.Anamnesis) error {
	if _, err := r.GetDB().NamedExecContext(ctx, upsertQuery, record); err != nil {
		return fmt.Errorf("failed to upsert anamnesis: %w", err)
	}
	return nil
}

// UpdateWithAudit persists the record and its audit log entry in one
// transaction, so an outside-consultation edit is never stored without
// its audit trail.
func (r *anamnesisRepository) UpdateWithAudit(ctx context.Context, record *model.Anamnesis, log *model.AuditLog) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, upsertQuery, record); err != nil {
			return fmt.Errorf("failed to upsert anamnesis: %w", err)
		}
		if _, err := tx.NamedExecContext(ctx, insertAuditQuery, log); err != nil {
			return fmt.Errorf("failed to insert audit log: %w", err)
		}
		return nil
	})
}
