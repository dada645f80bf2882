package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/pkg/db/models"
	"github.com/olivegrove/eshop-backend/pkg/enums"
	"github.com/olivegrove/eshop-backend/pkg/pagination"
)

// BrowseFilters narrows the storefront product listing. Zero values are
// ignored.
type BrowseFilters struct {
	Type        string
	HarvestYear *int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStock     bool
}

// Repository exposes catalog persistence operations.
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

// CreateProduct inserts a product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// SaveProduct persists product field changes.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// FindProduct loads a product with variants and lots.
func (r *Repository) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Lots").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductBySlug loads a product with the given status by slug.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string, status enums.ProductStatus) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Lots").
		Where("slug = ? AND status = ?", slug, status).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the product row.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ListProducts returns an admin page of products, any status.
func (r *Repository) ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Variants").
		Preload("Lots").
		Order("created_at DESC, id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// BrowseProducts returns a storefront page of ACTIVE products matching the
// filters, variants preloaded.
func (r *Repository) BrowseProducts(ctx context.Context, params pagination.Params, filters BrowseFilters) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("status = ?", enums.ProductStatusActive)

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.HarvestYear != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM lots WHERE lots.product_id = products.id AND lots.harvest_year = ?)",
			*filters.HarvestYear)
	}
	if filters.MinPrice != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM variants WHERE variants.product_id = products.id AND variants.price >= ?)",
			*filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM variants WHERE variants.product_id = products.id AND variants.price <= ?)",
			*filters.MaxPrice)
	}
	if filters.InStock {
		query = query.Where(
			"EXISTS (SELECT 1 FROM variants WHERE variants.product_id = products.id AND variants.stock_qty - variants.reserved_qty > 0)")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Variants").
		Order("created_at DESC, id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountVariants counts variants attached to a product.
func (r *Repository) CountVariants(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// CountLots counts lots attached to a product.
func (r *Repository) CountLots(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// CreateVariant inserts a variant row.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.Variant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

// UpdateVariantGuarded applies the field changes only when the stored
// version still matches, so a reservation landing between read and write is
// never overwritten. Returns false when a concurrent writer got there first.
func (r *Repository) UpdateVariantGuarded(ctx context.Context, variantID, version int64, fields map[string]any) (bool, error) {
	fields["version"] = gorm.Expr("version + 1")
	res := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ? AND version = ?", variantID, version).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindVariant loads a variant row.
func (r *Repository) FindVariant(ctx context.Context, id int64) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// DeleteVariant removes the variant row.
func (r *Repository) DeleteVariant(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Variant{}, "id = ?", id).Error
}

// CountVariantsByLot counts variants that reference a lot.
func (r *Repository) CountVariantsByLot(ctx context.Context, lotID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("lot_id = ?", lotID).
		Count(&count).Error
	return count, err
}

// CreateLot inserts a lot row.
func (r *Repository) CreateLot(ctx context.Context, lot *models.Lot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

// SaveLot persists lot field changes.
func (r *Repository) SaveLot(ctx context.Context, lot *models.Lot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// FindLot loads a lot row.
func (r *Repository) FindLot(ctx context.Context, id int64) (*models.Lot, error) {
	var lot models.Lot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// DeleteLot removes the lot row.
func (r *Repository) DeleteLot(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Lot{}, "id = ?", id).Error
}
