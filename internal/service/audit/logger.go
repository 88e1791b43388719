package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Logger wraps Service with a fire-and-forget Log for call sites where
// audit failures must not fail the request.
type Logger struct {
	service *Service
}

func NewLogger(service *Service) *Logger {
	return &Logger{service: service}
}

func (l *Logger) Log(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, opts *LogOptions) {
	go func() {
		if err := l.service.Log(context.WithoutCancel(ctx), userID, action, entityType, entityID, opts); err != nil {
			log.Error().Err(err).Str("action", action).Str("entity_type", entityType).Msg("audit log write failed")
		}
	}()
}

func (l *Logger) LogSync(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, opts *LogOptions) error {
	return l.service.Log(ctx, userID, action, entityType, entityID, opts)
}
