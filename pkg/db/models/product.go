package models

import (
	"time"

	"github.com/olivegrove/eshop-backend/pkg/enums"
)

// Product is a catalog entry. Variants and lots hang off it; the product row
// itself carries no pricing or stock.
type Product struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Slug        string              `gorm:"column:slug;uniqueIndex;not null"`
	Title       string              `gorm:"column:title;not null"`
	Type        string              `gorm:"column:type;not null"`
	Description *string             `gorm:"column:description"`
	Status      enums.ProductStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	Variants    []Variant           `gorm:"foreignKey:ProductID"`
	Lots        []Lot               `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
