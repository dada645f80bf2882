package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/internal/audit"
	"github.com/olivegrove/eshop-backend/pkg/db/models"
	"github.com/olivegrove/eshop-backend/pkg/enums"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/logger"
	"github.com/olivegrove/eshop-backend/pkg/pagination"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{}, &models.Lot{}, &models.Variant{}, &models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	auditor, err := audit.NewRecorder(db, logg)
	if err != nil {
		t.Fatalf("auditor: %v", err)
	}
	svc, err := NewService(NewRepository(db), &testTxRunner{db: db}, auditor)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func seedProduct(t *testing.T, svc Service, slug string) *models.Product {
	t.Helper()
	product, err := svc.CreateProduct(context.Background(), ProductInput{
		Slug: slug, Title: "Olive Oil", Type: "oil",
	}, "tester")
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func variantInput(productID int64, sku string) VariantInput {
	return VariantInput{
		ProductID:      productID,
		SKU:            sku,
		Title:          "500ml",
		Price:          decimal.RequireFromString("12.50"),
		Weight:         decimal.RequireFromString("500"),
		ShippingWeight: decimal.RequireFromString("650"),
		StockQty:       10,
	}
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, ProductInput{
		Slug: "koroneiki-evoo", Title: "Koroneiki EVOO", Type: "oil",
	}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if product.Status != enums.ProductStatusActive {
		t.Fatalf("expected default ACTIVE status, got %s", product.Status)
	}

	var count int64
	if err := db.Model(&models.AuditLog{}).Where("action = ?", "product.create").Count(&count).Error; err != nil {
		t.Fatalf("count audit: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 audit row, got %d", count)
	}
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedProduct(t, svc, "koroneiki-evoo")
	_, err := svc.CreateProduct(ctx, ProductInput{
		Slug: "koroneiki-evoo", Title: "Other", Type: "oil",
	}, "tester")
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, ProductInput{Slug: "x"}, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err := svc.CreateProduct(ctx, ProductInput{
		Slug: "x", Title: "X", Type: "oil", Status: "SHINY",
	}, "tester")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for status, got %v", err)
	}
}

func TestUpdateProduct(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "old-slug")
	updated, err := svc.UpdateProduct(ctx, product.ID, ProductInput{
		Slug: "new-slug", Title: "Renamed", Type: "oil", Status: "DRAFT",
	}, "tester")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "new-slug" || updated.Status != enums.ProductStatusDraft {
		t.Fatalf("unexpected product after update: %+v", updated)
	}

	if _, err := svc.UpdateProduct(ctx, 9999, ProductInput{
		Slug: "nope", Title: "X", Type: "oil",
	}, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProductSlugConflict(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedProduct(t, svc, "taken")
	other := seedProduct(t, svc, "other")
	_, err := svc.UpdateProduct(ctx, other.ID, ProductInput{
		Slug: "taken", Title: "Other", Type: "oil",
	}, "tester")
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "deletable")
	if err := svc.DeleteProduct(ctx, product.ID, "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetProduct(ctx, product.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDeleteProductWithVariants(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "busy")
	if _, err := svc.CreateVariant(ctx, variantInput(product.ID, "SKU-BUSY"), "tester"); err != nil {
		t.Fatalf("create variant: %v", err)
	}
	if err := svc.DeleteProduct(ctx, product.ID, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCreateVariant(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "with-variant")
	lot, err := svc.CreateLot(ctx, LotInput{
		ProductID: product.ID, HarvestYear: 2024, Season: "autumn", StorageType: "dry",
	}, "tester")
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	input := variantInput(product.ID, "SKU-1")
	input.LotID = &lot.ID
	variant, err := svc.CreateVariant(ctx, input, "tester")
	if err != nil {
		t.Fatalf("create variant: %v", err)
	}
	if variant.ID == 0 || variant.LotID == nil || *variant.LotID != lot.ID {
		t.Fatalf("unexpected variant: %+v", variant)
	}

	if _, err := svc.CreateVariant(ctx, variantInput(product.ID, "SKU-1"), "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected sku conflict, got %v", err)
	}
}

func TestUpdateVariantKeepsReservation(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "reserved-variant")
	variant, err := svc.CreateVariant(ctx, variantInput(product.ID, "SKU-R"), "tester")
	if err != nil {
		t.Fatalf("create variant: %v", err)
	}

	// A checkout reserves stock before the admin edit lands.
	if err := db.Model(&models.Variant{}).Where("id = ?", variant.ID).Updates(map[string]any{
		"reserved_qty": 2,
		"version":      gorm.Expr("version + 1"),
	}).Error; err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	input := variantInput(product.ID, "SKU-R")
	input.Title = "750ml"
	input.StockQty = 20
	updated, err := svc.UpdateVariant(ctx, variant.ID, input, "tester")
	if err != nil {
		t.Fatalf("update variant: %v", err)
	}
	if updated.ReservedQty != 2 {
		t.Fatalf("reservation erased by admin update: %+v", updated)
	}
	if updated.StockQty != 20 || updated.Title != "750ml" {
		t.Fatalf("catalog fields not applied: %+v", updated)
	}
	if updated.Version != variant.Version+2 {
		t.Fatalf("expected version bump per write, got %d", updated.Version)
	}
}

func TestUpdateVariantGuardedStaleVersion(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "stale-variant")
	variant, err := svc.CreateVariant(ctx, variantInput(product.ID, "SKU-S"), "tester")
	if err != nil {
		t.Fatalf("create variant: %v", err)
	}

	repo := NewRepository(db)
	ok, err := repo.UpdateVariantGuarded(ctx, variant.ID, variant.Version, map[string]any{"stock_qty": 5})
	if err != nil || !ok {
		t.Fatalf("first guarded update should win: ok=%v err=%v", ok, err)
	}
	ok, err = repo.UpdateVariantGuarded(ctx, variant.ID, variant.Version, map[string]any{"stock_qty": 9})
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if ok {
		t.Fatal("stale version must not win")
	}
}

func TestCreateVariantBadRefs(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateVariant(ctx, variantInput(9999, "SKU-NOPE"), "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for missing product, got %v", err)
	}

	first := seedProduct(t, svc, "first")
	second := seedProduct(t, svc, "second")
	lot, err := svc.CreateLot(ctx, LotInput{
		ProductID: first.ID, HarvestYear: 2023, Season: "winter", StorageType: "wet",
	}, "tester")
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	input := variantInput(second.ID, "SKU-CROSS")
	input.LotID = &lot.ID
	if _, err := svc.CreateVariant(ctx, input, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation for foreign lot, got %v", err)
	}

	bad := variantInput(first.ID, "SKU-NEG")
	bad.Price = decimal.RequireFromString("-1")
	if _, err := svc.CreateVariant(ctx, bad, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation for negative price, got %v", err)
	}
}

func TestDeleteVariantWithReservation(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "reserved")
	variant, err := svc.CreateVariant(ctx, variantInput(product.ID, "SKU-RES"), "tester")
	if err != nil {
		t.Fatalf("create variant: %v", err)
	}
	if err := db.Model(&models.Variant{}).Where("id = ?", variant.ID).
		Update("reserved_qty", 2).Error; err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if err := svc.DeleteVariant(ctx, variant.ID, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	if err := db.Model(&models.Variant{}).Where("id = ?", variant.ID).
		Update("reserved_qty", 0).Error; err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := svc.DeleteVariant(ctx, variant.ID, "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestLotLifecycle(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "lots")
	if _, err := svc.CreateLot(ctx, LotInput{
		ProductID: product.ID, HarvestYear: 1850, Season: "autumn", StorageType: "dry",
	}, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation for harvest year, got %v", err)
	}
	if _, err := svc.CreateLot(ctx, LotInput{
		ProductID: product.ID, HarvestYear: 2024, Season: "monsoon", StorageType: "dry",
	}, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation for season, got %v", err)
	}

	lot, err := svc.CreateLot(ctx, LotInput{
		ProductID: product.ID, HarvestYear: 2024, Season: "autumn", StorageType: "traditional",
	}, "tester")
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	updated, err := svc.UpdateLot(ctx, lot.ID, LotInput{
		ProductID: product.ID, HarvestYear: 2025, Season: "spring", StorageType: "dry",
	}, "tester")
	if err != nil {
		t.Fatalf("update lot: %v", err)
	}
	if updated.HarvestYear != 2025 || updated.Season != enums.SeasonSpring {
		t.Fatalf("unexpected lot after update: %+v", updated)
	}

	input := variantInput(product.ID, "SKU-LOT")
	input.LotID = &lot.ID
	variant, err := svc.CreateVariant(ctx, input, "tester")
	if err != nil {
		t.Fatalf("create variant: %v", err)
	}
	if err := svc.DeleteLot(ctx, lot.ID, "tester"); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict while referenced, got %v", err)
	}

	if err := svc.DeleteVariant(ctx, variant.ID, "tester"); err != nil {
		t.Fatalf("delete variant: %v", err)
	}
	if err := svc.DeleteLot(ctx, lot.ID, "tester"); err != nil {
		t.Fatalf("delete lot: %v", err)
	}
}

func TestBrowse(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	oil := seedProduct(t, svc, "browse-oil")
	lot, err := svc.CreateLot(ctx, LotInput{
		ProductID: oil.ID, HarvestYear: 2024, Season: "autumn", StorageType: "dry",
	}, "tester")
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}
	cheap := variantInput(oil.ID, "SKU-CHEAP")
	cheap.LotID = &lot.ID
	cheap.Price = decimal.RequireFromString("8.00")
	if _, err := svc.CreateVariant(ctx, cheap, "tester"); err != nil {
		t.Fatalf("create variant: %v", err)
	}

	soap, err := svc.CreateProduct(ctx, ProductInput{
		Slug: "browse-soap", Title: "Olive Soap", Type: "soap",
	}, "tester")
	if err != nil {
		t.Fatalf("create soap: %v", err)
	}
	empty := variantInput(soap.ID, "SKU-EMPTY")
	empty.StockQty = 0
	if _, err := svc.CreateVariant(ctx, empty, "tester"); err != nil {
		t.Fatalf("create soap variant: %v", err)
	}

	hidden, err := svc.CreateProduct(ctx, ProductInput{
		Slug: "browse-draft", Title: "Draft", Type: "oil", Status: "DRAFT",
	}, "tester")
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := svc.CreateVariant(ctx, variantInput(hidden.ID, "SKU-DRAFT"), "tester"); err != nil {
		t.Fatalf("create draft variant: %v", err)
	}

	all, err := svc.Browse(ctx, pagination.Params{}, BrowseQuery{})
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if all.TotalCount != 2 {
		t.Fatalf("expected 2 active products, got %d", all.TotalCount)
	}

	year := 2024
	byYear, err := svc.Browse(ctx, pagination.Params{}, BrowseQuery{HarvestYear: &year})
	if err != nil {
		t.Fatalf("browse by year: %v", err)
	}
	if byYear.TotalCount != 1 || byYear.Items[0].Slug != "browse-oil" {
		t.Fatalf("unexpected harvest year result: %+v", byYear.Items)
	}

	maxPrice := decimal.RequireFromString("9.00")
	byPrice, err := svc.Browse(ctx, pagination.Params{}, BrowseQuery{MaxPrice: &maxPrice})
	if err != nil {
		t.Fatalf("browse by price: %v", err)
	}
	if byPrice.TotalCount != 1 || byPrice.Items[0].Slug != "browse-oil" {
		t.Fatalf("unexpected price result: %+v", byPrice.Items)
	}

	inStock, err := svc.Browse(ctx, pagination.Params{}, BrowseQuery{InStock: true})
	if err != nil {
		t.Fatalf("browse in stock: %v", err)
	}
	if inStock.TotalCount != 1 || inStock.Items[0].Slug != "browse-oil" {
		t.Fatalf("unexpected in-stock result: %+v", inStock.Items)
	}

	minPrice := decimal.RequireFromString("20.00")
	if _, err := svc.Browse(ctx, pagination.Params{}, BrowseQuery{
		MinPrice: &minPrice, MaxPrice: &maxPrice,
	}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation for inverted price range, got %v", err)
	}
}

func TestGetBySlug(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, svc, "detail")
	full := variantInput(product.ID, "SKU-FULL")
	low := variantInput(product.ID, "SKU-LOW")
	low.StockQty = 3
	out := variantInput(product.ID, "SKU-OUT")
	out.StockQty = 0
	for _, input := range []VariantInput{full, low, out} {
		if _, err := svc.CreateVariant(ctx, input, "tester"); err != nil {
			t.Fatalf("create variant: %v", err)
		}
	}

	view, err := svc.GetBySlug(ctx, "detail")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if len(view.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(view.Variants))
	}
	statuses := map[string]enums.StockStatus{}
	for _, v := range view.Variants {
		statuses[v.SKU] = v.StockStatus
	}
	if statuses["SKU-FULL"] != enums.StockStatusInStock {
		t.Fatalf("expected IN_STOCK, got %s", statuses["SKU-FULL"])
	}
	if statuses["SKU-LOW"] != enums.StockStatusLowStock {
		t.Fatalf("expected LOW_STOCK, got %s", statuses["SKU-LOW"])
	}
	if statuses["SKU-OUT"] != enums.StockStatusOutOfStock {
		t.Fatalf("expected OUT_OF_STOCK, got %s", statuses["SKU-OUT"])
	}

	if _, err := svc.CreateProduct(ctx, ProductInput{
		Slug: "hidden-detail", Title: "Hidden", Type: "oil", Status: "DRAFT",
	}, "tester"); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := svc.GetBySlug(ctx, "hidden-detail"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for draft product, got %v", err)
	}
}
