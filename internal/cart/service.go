package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/internal/pricing"
	"github.com/olivegrove/eshop-backend/pkg/db/models"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
)

// cartShippingZone is the zone carts are priced against. Checkout keeps the
// same assumption; destination-based zones stay a storefront quote feature.
const cartShippingZone = "domestic"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the anonymous shopping cart operations.
type Service interface {
	Create(ctx context.Context) (*models.Cart, error)
	GetWithItems(ctx context.Context, cartID int64) (*models.Cart, error)
	AddItem(ctx context.Context, cartID, variantID int64, qty int) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID, variantID int64, qty int) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, variantID int64) (*models.Cart, error)
	Clear(ctx context.Context, cartID int64) (*models.Cart, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	totals   *pricing.TotalsCalculator
	shipping *pricing.ShippingResolver
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, totals *pricing.TotalsCalculator, shipping *pricing.ShippingResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if totals == nil {
		return nil, fmt.Errorf("totals calculator required")
	}
	if shipping == nil {
		return nil, fmt.Errorf("shipping resolver required")
	}
	return &service{repo: repo, tx: tx, totals: totals, shipping: shipping}, nil
}

// Create opens an empty cart with zeroed totals.
func (s *service) Create(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{
		Subtotal:     decimal.Zero,
		VATAmount:    decimal.Zero,
		ShippingCost: decimal.Zero,
		Total:        decimal.Zero,
	}
	created, err := s.repo.Create(ctx, cart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return created, nil
}

// GetWithItems loads a cart with its lines and their variants.
func (s *service) GetWithItems(ctx context.Context, cartID int64) (*models.Cart, error) {
	cart, err := s.repo.FindWithItems(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return cart, nil
}

// AddItem appends qty of a variant to the cart, merging with an existing
// line. The requested total line quantity must fit the available stock.
func (s *service) AddItem(ctx context.Context, cartID, variantID int64, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := loadCart(ctx, repo, cartID); err != nil {
			return err
		}
		variant, err := loadVariant(ctx, repo, variantID)
		if err != nil {
			return err
		}

		existing := 0
		item, err := repo.FindItem(ctx, cartID, variantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
		}
		if item != nil {
			existing = item.Qty
		}

		requested := existing + qty
		if available := variant.AvailableQty(); requested > available {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for requested quantity").
				WithDetails(map[string]any{
					"variant_id": variantID,
					"available":  available,
					"requested":  requested,
				})
		}

		if item == nil {
			item = &models.CartItem{
				CartID:        cartID,
				VariantID:     variantID,
				Qty:           requested,
				PriceSnapshot: variant.Price,
			}
		} else {
			// price snapshot from the first add stays
			item.Qty = requested
		}
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart item")
		}

		result, err = s.recompute(ctx, repo, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItemQuantity sets the absolute quantity of a cart line. Zero removes
// the line; negative values are rejected.
func (s *service) UpdateItemQuantity(ctx context.Context, cartID, variantID int64, qty int) (*models.Cart, error) {
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if qty == 0 {
		return s.RemoveItem(ctx, cartID, variantID)
	}

	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := loadCart(ctx, repo, cartID); err != nil {
			return err
		}
		item, err := repo.FindItem(ctx, cartID, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
		}
		variant, err := loadVariant(ctx, repo, variantID)
		if err != nil {
			return err
		}

		if available := variant.AvailableQty(); qty > available {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for requested quantity").
				WithDetails(map[string]any{
					"variant_id": variantID,
					"available":  available,
					"requested":  qty,
				})
		}

		item.Qty = qty
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart item")
		}

		result, err = s.recompute(ctx, repo, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem drops a cart line.
func (s *service) RemoveItem(ctx context.Context, cartID, variantID int64) (*models.Cart, error) {
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := loadCart(ctx, repo, cartID); err != nil {
			return err
		}
		if _, err := repo.FindItem(ctx, cartID, variantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
		}
		if err := repo.DeleteItem(ctx, cartID, variantID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting cart item")
		}

		var err error
		result, err = s.recompute(ctx, repo, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clear empties the cart and zeroes all totals. The cart row survives.
func (s *service) Clear(ctx context.Context, cartID int64) (*models.Cart, error) {
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := loadCart(ctx, repo, cartID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItems(ctx, cartID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart items")
		}

		// Clearing resets every derived amount outright; no shipping lookup.
		cart.Items = nil
		cart.Subtotal = decimal.Zero
		cart.VATAmount = decimal.Zero
		cart.ShippingCost = decimal.Zero
		cart.Total = decimal.Zero
		if err := repo.Save(ctx, cart); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart totals")
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recompute reloads the cart and rebuilds every derived amount from its
// lines: subtotal, informational VAT, domestic shipping and grand total.
func (s *service) recompute(ctx context.Context, repo CartRepository, cartID int64) (*models.Cart, error) {
	cart, err := repo.FindWithItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart")
	}

	lines := make([]pricing.Line, 0, len(cart.Items))
	var chargeable int64
	for _, item := range cart.Items {
		lines = append(lines, pricing.Line{UnitPrice: item.PriceSnapshot, Qty: item.Qty})
		if item.Variant != nil {
			// fractional grams are truncated per line before summing
			chargeable += item.Variant.ShippingWeight.Mul(decimal.NewFromInt(int64(item.Qty))).IntPart()
		}
	}

	cart.Subtotal = s.totals.Subtotal(lines)
	cart.VATAmount = s.totals.VATAmount(cart.Subtotal)
	cart.ShippingCost = decimal.Zero
	if cost, ok := s.shipping.Cost(cartShippingZone, chargeable); ok {
		cart.ShippingCost = cost
	}
	cart.Total = s.totals.GrandTotal(cart.Subtotal, cart.ShippingCost)

	if err := repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart totals")
	}
	return cart, nil
}

func loadCart(ctx context.Context, repo CartRepository, cartID int64) (*models.Cart, error) {
	cart, err := repo.FindWithItems(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return cart, nil
}

func loadVariant(ctx context.Context, repo CartRepository, variantID int64) (*models.Variant, error) {
	variant, err := repo.FindVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading variant")
	}
	return variant, nil
}
