package audit

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/pkg/db/models"
	"github.com/olivegrove/eshop-backend/pkg/logger"
)

// Entry describes one admin action worth keeping.
type Entry struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   int64
	Details    string
}

// Recorder persists audit entries. Recording is best effort: a failed write
// is logged and swallowed so it can never fail the action it describes.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry)
}

type recorder struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewRecorder(db *gorm.DB, logg *logger.Logger) (Recorder, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &recorder{db: db, logger: logg}, nil
}

// Record writes the audit row on tx when given, on the base handle
// otherwise, plus one structured log line either way.
func (r *recorder) Record(ctx context.Context, tx *gorm.DB, entry Entry) {
	handle := r.db
	if tx != nil {
		handle = tx
	}

	row := models.AuditLog{
		Actor:         entry.Actor,
		Action:        entry.Action,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		Details:       entry.Details,
		CorrelationID: logger.CorrelationIDFromContext(ctx),
	}

	logCtx := r.logger.WithFields(ctx, map[string]any{
		"actor":       entry.Actor,
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"entity_id":   entry.EntityID,
	})
	if err := handle.WithContext(ctx).Create(&row).Error; err != nil {
		r.logger.Error(logCtx, "audit record write failed", err)
		return
	}
	r.logger.Info(logCtx, "audit record written")
}
