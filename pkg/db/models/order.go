package models

import (
	"time"

	"github.com/olivegrove/eshop-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is an immutable snapshot of a checked-out cart plus the lifecycle
// state machine driven by the admin surface. Version guards concurrent
// transitions: updates must match the version they read.
type Order struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Number string `gorm:"column:number;uniqueIndex;not null"`

	Email string `gorm:"column:email;not null"`

	// Address is the legacy free-form shipping address. Structured checkout
	// fills the fields below as well.
	Address    string  `gorm:"column:address;not null"`
	FullName   *string `gorm:"column:full_name"`
	Phone      *string `gorm:"column:phone"`
	Street1    *string `gorm:"column:street1"`
	Street2    *string `gorm:"column:street2"`
	City       *string `gorm:"column:city"`
	Region     *string `gorm:"column:region"`
	PostalCode *string `gorm:"column:postal_code"`
	Country    *string `gorm:"column:country"`

	Subtotal decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax      decimal.Decimal `gorm:"column:tax;type:numeric(10,2);not null"`
	Shipping decimal.Decimal `gorm:"column:shipping;type:numeric(10,2);not null"`
	Total    decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`

	Status            enums.OrderStatus       `gorm:"column:status;not null;default:PENDING;index"`
	PaymentStatus     enums.PaymentStatus     `gorm:"column:payment_status;not null;default:PENDING;index"`
	FulfillmentStatus enums.FulfillmentStatus `gorm:"column:fulfillment_status;not null;default:UNFULFILLED"`
	TrackingURL       *string                 `gorm:"column:tracking_url"`

	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Version int64       `gorm:"column:version;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
