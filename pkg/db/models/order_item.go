package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem snapshots the variant title and unit price at checkout time so
// the order survives later catalog edits and deletions.
type OrderItem struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID       int64           `gorm:"column:order_id;not null;index"`
	VariantID     int64           `gorm:"column:variant_id;not null"`
	TitleSnapshot string          `gorm:"column:title_snapshot;not null"`
	Qty           int             `gorm:"column:qty;not null"`
	PriceSnapshot decimal.Decimal `gorm:"column:price_snapshot;type:numeric(10,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// LineTotal is the snapshot price multiplied by quantity.
func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.PriceSnapshot.Mul(decimal.NewFromInt(int64(oi.Qty)))
}
