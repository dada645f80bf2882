package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is an anonymous shopping session identified by a cookie-carried id.
// Monetary fields are recomputed in full on every mutation; VATAmount is
// informational (already contained in Subtotal, not added to Total).
type Cart struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	VATAmount    decimal.Decimal `gorm:"column:vat_amount;type:numeric(10,2);not null"`
	ShippingCost decimal.Decimal `gorm:"column:shipping_cost;type:numeric(10,2);not null"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`
	Items        []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
