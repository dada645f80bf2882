package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is the sellable SKU. StockQty/ReservedQty are only mutated through
// conditional updates guarded by Version; reserved never exceeds stock.
// ShippingWeight is the per-unit packed weight in grams.
type Variant struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID      int64           `gorm:"column:product_id;not null;index"`
	LotID          *int64          `gorm:"column:lot_id;index"`
	SKU            string          `gorm:"column:sku;uniqueIndex;not null"`
	Title          string          `gorm:"column:title;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Weight         decimal.Decimal `gorm:"column:weight;type:numeric(8,3);not null"`
	ShippingWeight decimal.Decimal `gorm:"column:shipping_weight;type:numeric(8,3);not null"`
	StockQty       int             `gorm:"column:stock_qty;not null;default:0"`
	ReservedQty    int             `gorm:"column:reserved_qty;not null;default:0"`
	Version        int64           `gorm:"column:version;not null;default:0"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// AvailableQty is the quantity orderable right now.
func (v Variant) AvailableQty() int {
	return v.StockQty - v.ReservedQty
}
