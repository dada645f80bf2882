package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/pkg/db/models"
	"github.com/olivegrove/eshop-backend/pkg/enums"
	"github.com/olivegrove/eshop-backend/pkg/pagination"
)

// Filters narrows the admin order listing. Empty fields are ignored.
type Filters struct {
	Status            *enums.OrderStatus
	PaymentStatus     *enums.PaymentStatus
	FulfillmentStatus *enums.FulfillmentStatus
}

// Repository exposes persistence operations for orders.
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

// FindByID loads an order with items.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber loads an order with items by its public number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "number = ?", number).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a page of orders, newest first, with the total row count.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.FulfillmentStatus != nil {
		query = query.Where("fulfillment_status = ?", *filters.FulfillmentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC, id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateGuarded applies the field changes only when the stored version still
// matches. Returns false when a concurrent writer got there first.
func (r *Repository) UpdateGuarded(ctx context.Context, orderID, version int64, fields map[string]any) (bool, error) {
	fields["version"] = gorm.Expr("version + 1")
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", orderID, version).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
