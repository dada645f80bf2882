package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/pkg/db/models"
	"github.com/olivegrove/eshop-backend/pkg/enums"
	"github.com/olivegrove/eshop-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_repo_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return db
}

func insertOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, payment enums.PaymentStatus, createdAt time.Time) models.Order {
	t.Helper()

	order := models.Order{
		Number:            "ORD-" + uuid.NewString()[:8],
		Email:             "buyer@example.com",
		Address:           "1 Grove Lane",
		Subtotal:          decimal.RequireFromString("40.00"),
		Tax:               decimal.RequireFromString("8.00"),
		Shipping:          decimal.RequireFromString("5.00"),
		Total:             decimal.RequireFromString("53.00"),
		Status:            status,
		PaymentStatus:     payment,
		FulfillmentStatus: enums.FulfillmentStatusUnfulfilled,
		CreatedAt:         createdAt,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestRepositoryListFiltersAndOrders(t *testing.T) {
	t.Parallel()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	older := insertOrder(t, db, enums.OrderStatusPending, enums.PaymentStatusPending, base)
	newer := insertOrder(t, db, enums.OrderStatusPending, enums.PaymentStatusPending, base.Add(time.Minute))
	insertOrder(t, db, enums.OrderStatusCancelled, enums.PaymentStatusPending, base.Add(2*time.Minute))

	status := enums.OrderStatusPending
	rows, total, err := repo.List(ctx, pagination.Params{Page: 1, PageSize: 10}, Filters{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}

func TestRepositoryFindByNumber(t *testing.T) {
	t.Parallel()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := insertOrder(t, db, enums.OrderStatusPending, enums.PaymentStatusPending, time.Now())
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID:       order.ID,
		VariantID:     1,
		TitleSnapshot: "Arbequina 500ml",
		Qty:           2,
		PriceSnapshot: decimal.RequireFromString("12.50"),
	}).Error)

	found, err := repo.FindByNumber(ctx, order.Number)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Arbequina 500ml", found.Items[0].TitleSnapshot)

	_, err = repo.FindByNumber(ctx, "ORD-missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateGuarded(t *testing.T) {
	t.Parallel()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := insertOrder(t, db, enums.OrderStatusPending, enums.PaymentStatusPending, time.Now())

	ok, err := repo.UpdateGuarded(ctx, order.ID, order.Version, map[string]any{
		"payment_status": enums.PaymentStatusPaid,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	// Stale version must not win.
	ok, err = repo.UpdateGuarded(ctx, order.ID, order.Version, map[string]any{
		"payment_status": enums.PaymentStatusPending,
	})
	require.NoError(t, err)
	assert.False(t, ok)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, enums.PaymentStatusPaid, reloaded.PaymentStatus)
	assert.Equal(t, order.Version+1, reloaded.Version)
}
