package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/pkg/db/models"
)

// Repository exposes the persistence operations checkout needs.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindCartWithItems loads the cart and its lines with variants.
func (r *Repository) FindCartWithItems(ctx context.Context, cartID int64) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Variant").
		First(&cart, "id = ?", cartID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateOrder inserts the order and its item snapshots.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// DeleteCartItems empties the cart, keeping the cart row.
func (r *Repository) DeleteCartItems(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// ResetCartTotals zeroes the cart's derived amounts after its items moved
// into an order.
func (r *Repository) ResetCartTotals(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"subtotal":      0,
			"vat_amount":    0,
			"shipping_cost": 0,
			"total":         0,
		}).Error
}

// FindOrderByNumber loads an order with items by its public number.
func (r *Repository) FindOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "number = ?", number).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
