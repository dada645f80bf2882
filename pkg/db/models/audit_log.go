package models

import "time"

// AuditLog records who changed what on the admin surface. Rows are
// append-only; writes are best effort and never fail the parent operation.
type AuditLog struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Actor         string    `gorm:"column:actor;not null"`
	Action        string    `gorm:"column:action;not null;index"`
	EntityType    string    `gorm:"column:entity_type;not null;index:idx_audit_logs_entity"`
	EntityID      int64     `gorm:"column:entity_id;not null;index:idx_audit_logs_entity"`
	Details       string    `gorm:"column:details;type:text"`
	CorrelationID string    `gorm:"column:correlation_id"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index"`
}
