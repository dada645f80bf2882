package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/internal/inventory"
	"github.com/olivegrove/eshop-backend/internal/notifications"
	"github.com/olivegrove/eshop-backend/pkg/db"
	"github.com/olivegrove/eshop-backend/pkg/db/models"
	"github.com/olivegrove/eshop-backend/pkg/enums"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/logger"
)

const (
	orderNumberPrefix = "ORD"
	// maxNumberAttempts bounds regeneration when a generated order number
	// collides with an existing one.
	maxNumberAttempts = 3
	minLegacyAddress  = 10
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Request is the structured checkout payload.
type Request struct {
	Email      string
	FullName   string
	Phone      string
	Street1    string
	Street2    string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// Service turns a cart into an order: validation, stock reservation, order
// snapshot, notification, cart cleanup.
type Service interface {
	Submit(ctx context.Context, cartID int64, req Request) (*models.Order, error)
	SubmitLegacy(ctx context.Context, cartID int64, email, address string) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	stock    inventory.Engine
	notifier notifications.Notifier
	logger   *logger.Logger

	now     func() time.Time
	randInt func(n int) int
}

// NewService builds the checkout orchestrator.
func NewService(repo *Repository, tx txRunner, stock inventory.Engine, notifier notifications.Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory engine required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		stock:    stock,
		notifier: notifier,
		logger:   logg,
		now:      time.Now,
		randInt:  rand.Intn,
	}, nil
}

// Submit places an order from a structured address payload.
func (s *service) Submit(ctx context.Context, cartID int64, req Request) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	order := &models.Order{
		Email:      strings.TrimSpace(req.Email),
		Address:    formatAddress(req),
		FullName:   optional(req.FullName),
		Phone:      optional(req.Phone),
		Street1:    optional(req.Street1),
		Street2:    optional(req.Street2),
		City:       optional(req.City),
		Region:     optional(req.Region),
		PostalCode: optional(req.PostalCode),
		Country:    optional(req.Country),
	}
	return s.place(ctx, cartID, order)
}

// SubmitLegacy places an order from the original email+address pair.
func (s *service) SubmitLegacy(ctx context.Context, cartID int64, email, address string) (*models.Order, error) {
	email = strings.TrimSpace(email)
	address = strings.TrimSpace(address)
	if !looksLikeEmail(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(address) < minLegacyAddress {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is too short").
			WithDetails(map[string]any{"min_length": minLegacyAddress})
	}
	return s.place(ctx, cartID, &models.Order{Email: email, Address: address})
}

// place runs the shared pipeline inside one transaction. The notification
// fires only after the transaction committed.
func (s *service) place(ctx context.Context, cartID int64, order *models.Order) (*models.Order, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindCartWithItems(ctx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if len(cart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		lines := make([]inventory.Line, 0, len(cart.Items))
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.Variant == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, "cart references missing variant").
					WithDetails(map[string]any{"variant_id": item.VariantID})
			}
			lines = append(lines, inventory.Line{VariantID: item.VariantID, Qty: item.Qty})
			items = append(items, models.OrderItem{
				VariantID:     item.VariantID,
				TitleSnapshot: item.Variant.Title,
				Qty:           item.Qty,
				PriceSnapshot: item.PriceSnapshot,
			})
		}

		if err := s.stock.Reserve(ctx, tx, lines); err != nil {
			return err
		}

		order.Subtotal = cart.Subtotal
		order.Tax = cart.VATAmount
		order.Shipping = cart.ShippingCost
		order.Total = cart.Total
		order.Status = enums.OrderStatusPending
		order.PaymentStatus = enums.PaymentStatusPending
		order.FulfillmentStatus = enums.FulfillmentStatusUnfulfilled
		order.Items = items

		if err := s.createWithUniqueNumber(ctx, repo, order); err != nil {
			return err
		}

		if err := repo.DeleteCartItems(ctx, cartID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}
		return repo.ResetCartTotals(ctx, cartID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderReceived(ctx, notifications.OrderEvent{
		OrderNumber: order.Number,
		Email:       order.Email,
		Total:       order.Total,
	})
	return order, nil
}

// createWithUniqueNumber regenerates the order number when it is already
// taken. The existence check runs before the insert: a failed insert would
// abort the surrounding transaction on Postgres.
func (s *service) createWithUniqueNumber(ctx context.Context, repo *Repository, order *models.Order) error {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		order.Number = s.generateNumber()
		_, err := repo.FindOrderByNumber(ctx, order.Number)
		if err == nil {
			s.logger.Warn(s.logger.WithField(ctx, "order_number", order.Number),
				"order number collision, regenerating")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking order number")
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order number already taken").
					WithDetails(map[string]any{"order_number": order.Number})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique order number")
}

// generateNumber yields ORD-yyyyMMddHHmmss-NNNN.
func (s *service) generateNumber() string {
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, s.now().Format("20060102150405"), s.randInt(10000))
}

// GetOrderByNumber is the storefront order status read path.
func (s *service) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindOrderByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func validateRequest(req Request) error {
	missing := []string{}
	for field, value := range map[string]string{
		"email":       req.Email,
		"full_name":   req.FullName,
		"street1":     req.Street1,
		"city":        req.City,
		"region":      req.Region,
		"postal_code": req.PostalCode,
		"country":     req.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required checkout fields").
			WithDetails(map[string]any{"fields": missing})
	}
	if !looksLikeEmail(strings.TrimSpace(req.Email)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@([A-Za-z0-9.-]+\.[A-Za-z]{2,})$`)

func looksLikeEmail(value string) bool {
	return emailPattern.MatchString(value)
}

func formatAddress(req Request) string {
	street := req.Street1
	if strings.TrimSpace(req.Street2) != "" {
		street = fmt.Sprintf("%s, %s", req.Street1, req.Street2)
	}
	parts := []string{
		street,
		fmt.Sprintf("%s, %s %s", req.City, req.Region, req.PostalCode),
		req.Country,
	}
	return strings.Join(parts, ", ")
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
