package cart

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/pkg/db/models"
)

// CartRepository exposes persistence operations for carts and their items.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	FindWithItems(ctx context.Context, id int64) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, variantID int64) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID, variantID int64) error
	DeleteItems(ctx context.Context, cartID int64) error
	FindVariant(ctx context.Context, id int64) (*models.Variant, error)
	DeleteStaleEmpty(ctx context.Context, cutoff time.Time) (int64, error)
}
