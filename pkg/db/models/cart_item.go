package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem pins the unit price at the moment the line was added so cart
// totals stay stable across admin price edits.
type CartItem struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CartID        int64           `gorm:"column:cart_id;not null;index:idx_cart_items_cart_variant,unique"`
	VariantID     int64           `gorm:"column:variant_id;not null;index:idx_cart_items_cart_variant,unique"`
	Variant       *Variant        `gorm:"foreignKey:VariantID"`
	Qty           int             `gorm:"column:qty;not null"`
	PriceSnapshot decimal.Decimal `gorm:"column:price_snapshot;type:numeric(10,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotal is the snapshot price multiplied by quantity.
func (ci *CartItem) LineTotal() decimal.Decimal {
	return ci.PriceSnapshot.Mul(decimal.NewFromInt(int64(ci.Qty)))
}
