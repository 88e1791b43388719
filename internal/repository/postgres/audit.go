package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/repository"
)

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

const insertAuditQuery = `
	INSERT INTO audit_logs (
		id, user_id, clinic_id, action, entity_type, entity_id,
		summary, changes, metadata, ip_address, user_agent,
		critical_count, medium_count, low_count, created_at
	) VALUES (
		:id, :user_id, :clinic_id, :action, :entity_type, :entity_id,
		:summary, :changes, :metadata, :ip_address, :user_agent,
		:critical_count, :medium_count, :low_count, :created_at
	)
`

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	if _, err := r.GetDB().NamedExecContext(ctx, insertAuditQuery, log); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	query := `SELECT * FROM audit_logs WHERE 1=1`
	var args []interface{}

	if filters != nil {
		if filters.UserID != uuid.Nil {
			query += fmt.Sprintf(" AND user_id = $%d", len(args)+1)
			args = append(args, filters.UserID)
		}
		if filters.EntityType != "" {
			query += fmt.Sprintf(" AND entity_type = $%d", len(args)+1)
			args = append(args, filters.EntityType)
		}
		if filters.EntityID != uuid.Nil {
			query += fmt.Sprintf(" AND entity_id = $%d", len(args)+1)
			args = append(args, filters.EntityID)
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND created_at >= $%d", len(args)+1)
			args = append(args, filters.StartDate)
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND created_at <= $%d", len(args)+1)
			args = append(args, filters.EndDate)
		}
	}
	query += " ORDER BY created_at DESC"

	var logs []*model.AuditLog
	if err := r.GetDB().SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

func (r *auditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.GetDB().ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit logs: %w", err)
	}
	return res.RowsAffected()
}
