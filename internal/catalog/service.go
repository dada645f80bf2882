package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/internal/audit"
	"github.com/olivegrove/eshop-backend/pkg/db"
	"github.com/olivegrove/eshop-backend/pkg/db/models"
	"github.com/olivegrove/eshop-backend/pkg/enums"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/pagination"
)

const (
	minHarvestYear = 1900
	maxHarvestYear = 2030
	// lowStockThreshold marks a variant LOW_STOCK below this availability.
	lowStockThreshold = 5
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Slug        string
	Title       string
	Type        string
	Description *string
	Status      string
}

// VariantInput is the admin payload for creating or updating a variant.
type VariantInput struct {
	ProductID      int64
	LotID          *int64
	SKU            string
	Title          string
	Price          decimal.Decimal
	Weight         decimal.Decimal
	ShippingWeight decimal.Decimal
	StockQty       int
}

// LotInput is the admin payload for creating or updating a lot.
type LotInput struct {
	ProductID   int64
	HarvestYear int
	Season      string
	StorageType string
	PressDate   *time.Time
}

// VariantView is a storefront variant with its derived stock status.
type VariantView struct {
	ID          int64             `json:"id"`
	SKU         string            `json:"sku"`
	Title       string            `json:"title"`
	Price       decimal.Decimal   `json:"price"`
	StockStatus enums.StockStatus `json:"stock_status"`
}

// ProductView is a storefront product with its variants.
type ProductView struct {
	ID          int64         `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Type        string        `json:"type"`
	Description *string       `json:"description,omitempty"`
	Variants    []VariantView `json:"variants"`
}

// BrowseQuery carries the raw storefront filter strings.
type BrowseQuery struct {
	Type        string
	HarvestYear *int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStock     bool
}

// Service is the catalog: admin CRUD over products, variants and lots, and
// the storefront browse/detail read paths.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput, actor string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput, actor string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64, actor string) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params) (pagination.Result[models.Product], error)

	CreateVariant(ctx context.Context, input VariantInput, actor string) (*models.Variant, error)
	UpdateVariant(ctx context.Context, id int64, input VariantInput, actor string) (*models.Variant, error)
	DeleteVariant(ctx context.Context, id int64, actor string) error

	CreateLot(ctx context.Context, input LotInput, actor string) (*models.Lot, error)
	UpdateLot(ctx context.Context, id int64, input LotInput, actor string) (*models.Lot, error)
	DeleteLot(ctx context.Context, id int64, actor string) error

	Browse(ctx context.Context, params pagination.Params, query BrowseQuery) (pagination.Result[ProductView], error)
	GetBySlug(ctx context.Context, slug string) (*ProductView, error)
}

type service struct {
	repo    *Repository
	tx      txRunner
	auditor audit.Recorder
}

// NewService builds the catalog service.
func NewService(repo *Repository, tx txRunner, auditor audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, tx: tx, auditor: auditor}, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput, actor string) (*models.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists").
					WithDetails(map[string]any{"slug": product.Slug})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
		}
		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "product.create", EntityType: "product", EntityID: product.ID,
			Details: fmt.Sprintf("product %q created", product.Slug),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, input ProductInput, actor string) (*models.Product, error) {
	updated, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	var result *models.Product
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindProduct(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}

		product.Slug = updated.Slug
		product.Title = updated.Title
		product.Type = updated.Type
		product.Description = updated.Description
		product.Status = updated.Status
		if err := repo.SaveProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists").
					WithDetails(map[string]any{"slug": product.Slug})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving product")
		}

		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "product.update", EntityType: "product", EntityID: product.ID,
			Details: fmt.Sprintf("product %q updated", product.Slug),
		})
		result = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteProduct refuses while variants or lots still reference the product.
func (s *service) DeleteProduct(ctx context.Context, id int64, actor string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindProduct(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}

		variants, err := repo.CountVariants(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting variants")
		}
		lots, err := repo.CountLots(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting lots")
		}
		if variants > 0 || lots > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "product still has variants or lots").
				WithDetails(map[string]any{"variants": variants, "lots": lots})
		}

		if err := repo.DeleteProduct(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
		}
		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "product.delete", EntityType: "product", EntityID: id,
			Details: fmt.Sprintf("product %q deleted", product.Slug),
		})
		return nil
	})
}

func (s *service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params) (pagination.Result[models.Product], error) {
	rows, total, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return pagination.Result[models.Product]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return pagination.NewResult(rows, params, total), nil
}

func (s *service) CreateVariant(ctx context.Context, input VariantInput, actor string) (*models.Variant, error) {
	if err := validateVariantInput(input); err != nil {
		return nil, err
	}

	variant := &models.Variant{
		ProductID:      input.ProductID,
		LotID:          input.LotID,
		SKU:            strings.TrimSpace(input.SKU),
		Title:          strings.TrimSpace(input.Title),
		Price:          input.Price,
		Weight:         input.Weight,
		ShippingWeight: input.ShippingWeight,
		StockQty:       input.StockQty,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureVariantRefs(ctx, repo, input); err != nil {
			return err
		}
		if err := repo.CreateVariant(ctx, variant); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "variant sku already exists").
					WithDetails(map[string]any{"sku": variant.SKU})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating variant")
		}
		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "variant.create", EntityType: "variant", EntityID: variant.ID,
			Details: fmt.Sprintf("variant %q created", variant.SKU),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *service) UpdateVariant(ctx context.Context, id int64, input VariantInput, actor string) (*models.Variant, error) {
	if err := validateVariantInput(input); err != nil {
		return nil, err
	}

	var result *models.Variant
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		variant, err := repo.FindVariant(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading variant")
		}
		if err := s.ensureVariantRefs(ctx, repo, input); err != nil {
			return err
		}

		// Guarded column update: reserved_qty and version belong to the
		// reservation engine and must never be written back from a stale read.
		fields := map[string]any{
			"product_id":      input.ProductID,
			"lot_id":          input.LotID,
			"sku":             strings.TrimSpace(input.SKU),
			"title":           strings.TrimSpace(input.Title),
			"price":           input.Price,
			"weight":          input.Weight,
			"shipping_weight": input.ShippingWeight,
			"stock_qty":       input.StockQty,
		}
		ok, err := repo.UpdateVariantGuarded(ctx, variant.ID, variant.Version, fields)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "variant sku already exists").
					WithDetails(map[string]any{"sku": strings.TrimSpace(input.SKU)})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving variant")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "variant was modified concurrently")
		}

		updated, err := repo.FindVariant(ctx, variant.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading variant")
		}

		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "variant.update", EntityType: "variant", EntityID: updated.ID,
			Details: fmt.Sprintf("variant %q updated", updated.SKU),
		})
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteVariant refuses while reserved stock exists for the variant.
func (s *service) DeleteVariant(ctx context.Context, id int64, actor string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		variant, err := repo.FindVariant(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading variant")
		}
		if variant.ReservedQty > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "variant has reserved stock").
				WithDetails(map[string]any{"reserved_qty": variant.ReservedQty})
		}

		if err := repo.DeleteVariant(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting variant")
		}
		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "variant.delete", EntityType: "variant", EntityID: id,
			Details: fmt.Sprintf("variant %q deleted", variant.SKU),
		})
		return nil
	})
}

func (s *service) CreateLot(ctx context.Context, input LotInput, actor string) (*models.Lot, error) {
	lot, err := lotFromInput(input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := ensureProductExists(ctx, repo, input.ProductID); err != nil {
			return err
		}
		if err := repo.CreateLot(ctx, lot); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating lot")
		}
		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "lot.create", EntityType: "lot", EntityID: lot.ID,
			Details: fmt.Sprintf("lot for product %d created", lot.ProductID),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

func (s *service) UpdateLot(ctx context.Context, id int64, input LotInput, actor string) (*models.Lot, error) {
	updated, err := lotFromInput(input)
	if err != nil {
		return nil, err
	}

	var result *models.Lot
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		lot, err := repo.FindLot(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "lot not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading lot")
		}
		if err := ensureProductExists(ctx, repo, input.ProductID); err != nil {
			return err
		}

		lot.ProductID = updated.ProductID
		lot.HarvestYear = updated.HarvestYear
		lot.Season = updated.Season
		lot.StorageType = updated.StorageType
		lot.PressDate = updated.PressDate
		if err := repo.SaveLot(ctx, lot); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving lot")
		}

		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "lot.update", EntityType: "lot", EntityID: lot.ID,
			Details: fmt.Sprintf("lot %d updated", lot.ID),
		})
		result = lot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteLot refuses while variants still reference the lot.
func (s *service) DeleteLot(ctx context.Context, id int64, actor string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindLot(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "lot not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading lot")
		}

		refs, err := repo.CountVariantsByLot(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting lot references")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "lot is referenced by variants").
				WithDetails(map[string]any{"variants": refs})
		}

		if err := repo.DeleteLot(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting lot")
		}
		s.auditor.Record(ctx, tx, audit.Entry{
			Actor: actor, Action: "lot.delete", EntityType: "lot", EntityID: id,
			Details: fmt.Sprintf("lot %d deleted", id),
		})
		return nil
	})
}

// Browse returns ACTIVE products matching the storefront filters.
func (s *service) Browse(ctx context.Context, params pagination.Params, query BrowseQuery) (pagination.Result[ProductView], error) {
	filters, err := browseFilters(query)
	if err != nil {
		return pagination.Result[ProductView]{}, err
	}

	rows, total, err := s.repo.BrowseProducts(ctx, params, filters)
	if err != nil {
		return pagination.Result[ProductView]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "browsing products")
	}

	views := make([]ProductView, 0, len(rows))
	for i := range rows {
		views = append(views, toProductView(&rows[i]))
	}
	return pagination.NewResult(views, params, total), nil
}

// GetBySlug is the storefront product detail: ACTIVE products only.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug, enums.ProductStatusActive)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	view := toProductView(product)
	return &view, nil
}

// StockStatusFor grades availability into the storefront stock badge.
func StockStatusFor(available int) enums.StockStatus {
	switch {
	case available <= 0:
		return enums.StockStatusOutOfStock
	case available < lowStockThreshold:
		return enums.StockStatusLowStock
	default:
		return enums.StockStatusInStock
	}
}

func toProductView(product *models.Product) ProductView {
	variants := make([]VariantView, 0, len(product.Variants))
	for _, v := range product.Variants {
		variants = append(variants, VariantView{
			ID:          v.ID,
			SKU:         v.SKU,
			Title:       v.Title,
			Price:       v.Price,
			StockStatus: StockStatusFor(v.AvailableQty()),
		})
	}
	return ProductView{
		ID:          product.ID,
		Slug:        product.Slug,
		Title:       product.Title,
		Type:        product.Type,
		Description: product.Description,
		Variants:    variants,
	}
}

func productFromInput(input ProductInput) (*models.Product, error) {
	slug := strings.TrimSpace(input.Slug)
	title := strings.TrimSpace(input.Title)
	kind := strings.TrimSpace(input.Type)
	if slug == "" || title == "" || kind == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug, title and type are required")
	}

	status := enums.ProductStatusActive
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := enums.ParseProductStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status").
				WithDetails(map[string]any{"status": input.Status})
		}
		status = parsed
	}

	return &models.Product{
		Slug:        slug,
		Title:       title,
		Type:        kind,
		Description: input.Description,
		Status:      status,
	}, nil
}

func lotFromInput(input LotInput) (*models.Lot, error) {
	if input.HarvestYear < minHarvestYear || input.HarvestYear > maxHarvestYear {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "harvest year out of range").
			WithDetails(map[string]any{"min": minHarvestYear, "max": maxHarvestYear})
	}
	season, err := enums.ParseSeason(input.Season)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown season").
			WithDetails(map[string]any{"season": input.Season})
	}
	storage, err := enums.ParseStorageType(input.StorageType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown storage type").
			WithDetails(map[string]any{"storage_type": input.StorageType})
	}
	return &models.Lot{
		ProductID:   input.ProductID,
		HarvestYear: input.HarvestYear,
		Season:      season,
		StorageType: storage,
		PressDate:   input.PressDate,
	}, nil
}

func validateVariantInput(input VariantInput) error {
	if strings.TrimSpace(input.SKU) == "" || strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku and title are required")
	}
	if input.Price.IsNegative() || input.Weight.IsNegative() || input.ShippingWeight.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price and weights must not be negative")
	}
	if input.StockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must not be negative")
	}
	return nil
}

// ensureVariantRefs checks the product exists and, when a lot is given, that
// it belongs to the same product.
func (s *service) ensureVariantRefs(ctx context.Context, repo *Repository, input VariantInput) error {
	if err := ensureProductExists(ctx, repo, input.ProductID); err != nil {
		return err
	}
	if input.LotID == nil {
		return nil
	}
	lot, err := repo.FindLot(ctx, *input.LotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "lot not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading lot")
	}
	if lot.ProductID != input.ProductID {
		return pkgerrors.New(pkgerrors.CodeValidation, "lot belongs to a different product").
			WithDetails(map[string]any{"lot_id": lot.ID, "lot_product_id": lot.ProductID})
	}
	return nil
}

func ensureProductExists(ctx context.Context, repo *Repository, productID int64) error {
	if _, err := repo.FindProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return nil
}

func browseFilters(query BrowseQuery) (BrowseFilters, error) {
	filters := BrowseFilters{
		Type:    strings.TrimSpace(query.Type),
		InStock: query.InStock,
	}
	if query.HarvestYear != nil {
		if *query.HarvestYear < minHarvestYear || *query.HarvestYear > maxHarvestYear {
			return BrowseFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "harvest year out of range").
				WithDetails(map[string]any{"min": minHarvestYear, "max": maxHarvestYear})
		}
		filters.HarvestYear = query.HarvestYear
	}
	if query.MinPrice != nil {
		if query.MinPrice.IsNegative() {
			return BrowseFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "min price must not be negative")
		}
		filters.MinPrice = query.MinPrice
	}
	if query.MaxPrice != nil {
		if query.MaxPrice.IsNegative() {
			return BrowseFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "max price must not be negative")
		}
		filters.MaxPrice = query.MaxPrice
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return BrowseFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "min price exceeds max price")
	}
	return filters, nil
}
