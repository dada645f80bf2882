package models

import (
	"time"

	"github.com/olivegrove/eshop-backend/pkg/enums"
)

// Lot is a harvest batch belonging to one product. Variants reference lots
// but do not own them.
type Lot struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   int64             `gorm:"column:product_id;not null;index"`
	HarvestYear int               `gorm:"column:harvest_year;not null"`
	Season      enums.Season      `gorm:"column:season;not null"`
	StorageType enums.StorageType `gorm:"column:storage_type;not null"`
	PressDate   *time.Time        `gorm:"column:press_date"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
