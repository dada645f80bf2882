package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/olivegrove/eshop-backend/internal/audit"
	"github.com/olivegrove/eshop-backend/internal/inventory"
	"github.com/olivegrove/eshop-backend/internal/notifications"
	"github.com/olivegrove/eshop-backend/pkg/db/models"
	"github.com/olivegrove/eshop-backend/pkg/enums"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ListQuery carries raw filter strings from the admin listing endpoint.
type ListQuery struct {
	Status            string
	PaymentStatus     string
	FulfillmentStatus string
}

// Service drives the admin order lifecycle: pay, ship, cancel, plus reads.
type Service interface {
	List(ctx context.Context, params pagination.Params, query ListQuery) (pagination.Result[models.Order], error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID int64, actor string) (*models.Order, error)
	Ship(ctx context.Context, orderID int64, trackingURL, actor string) (*models.Order, error)
	Cancel(ctx context.Context, orderID int64, actor string) (*models.Order, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	stock    inventory.Engine
	auditor  audit.Recorder
	notifier notifications.Notifier
}

// NewService builds the order lifecycle service.
func NewService(repo *Repository, tx txRunner, stock inventory.Engine, auditor audit.Recorder, notifier notifications.Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory engine required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{repo: repo, tx: tx, stock: stock, auditor: auditor, notifier: notifier}, nil
}

// List returns a page of orders. Unknown filter values are rejected rather
// than silently matching nothing.
func (s *service) List(ctx context.Context, params pagination.Params, query ListQuery) (pagination.Result[models.Order], error) {
	var filters Filters
	if v := strings.TrimSpace(query.Status); v != "" {
		status, err := enums.ParseOrderStatus(v)
		if err != nil {
			return pagination.Result[models.Order]{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status filter").
				WithDetails(map[string]any{"status": v})
		}
		filters.Status = &status
	}
	if v := strings.TrimSpace(query.PaymentStatus); v != "" {
		status, err := enums.ParsePaymentStatus(v)
		if err != nil {
			return pagination.Result[models.Order]{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status filter").
				WithDetails(map[string]any{"payment_status": v})
		}
		filters.PaymentStatus = &status
	}
	if v := strings.TrimSpace(query.FulfillmentStatus); v != "" {
		status, err := enums.ParseFulfillmentStatus(v)
		if err != nil {
			return pagination.Result[models.Order]{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown fulfillment status filter").
				WithDetails(map[string]any{"fulfillment_status": v})
		}
		filters.FulfillmentStatus = &status
	}

	rows, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return pagination.Result[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return pagination.NewResult(rows, params, total), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// MarkPaid records payment: CONFIRMED/PAID, and reserved stock is deducted
// for good.
func (s *service) MarkPaid(ctx context.Context, orderID int64, actor string) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadForUpdate(ctx, repo, orderID)
		if err != nil {
			return err
		}

		if order.PaymentStatus == enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot be paid")
		}

		if err := s.stock.Commit(ctx, tx, orderLines(order)); err != nil {
			return err
		}

		ok, err := repo.UpdateGuarded(ctx, order.ID, order.Version, map[string]any{
			"status":         enums.OrderStatusConfirmed,
			"payment_status": enums.PaymentStatusPaid,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		s.auditor.Record(ctx, tx, audit.Entry{
			Actor:      actor,
			Action:     "order.mark_paid",
			EntityType: "order",
			EntityID:   order.ID,
			Details:    fmt.Sprintf("order %s marked paid", order.Number),
		})

		result, err = repo.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PaymentReceived(ctx, notifications.OrderEvent{
		OrderNumber: result.Number,
		Email:       result.Email,
		Total:       result.Total,
	})
	return result, nil
}

// Ship marks a paid order fulfilled, recording the tracking link.
func (s *service) Ship(ctx context.Context, orderID int64, trackingURL, actor string) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadForUpdate(ctx, repo, orderID)
		if err != nil {
			return err
		}

		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot be shipped")
		}
		if order.PaymentStatus != enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "unpaid orders cannot be shipped")
		}
		if order.FulfillmentStatus == enums.FulfillmentStatusFulfilled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already fulfilled")
		}

		fields := map[string]any{
			"fulfillment_status": enums.FulfillmentStatusFulfilled,
		}
		trackingURL = strings.TrimSpace(trackingURL)
		if trackingURL != "" {
			fields["tracking_url"] = trackingURL
		}
		ok, err := repo.UpdateGuarded(ctx, order.ID, order.Version, fields)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		s.auditor.Record(ctx, tx, audit.Entry{
			Actor:      actor,
			Action:     "order.ship",
			EntityType: "order",
			EntityID:   order.ID,
			Details:    fmt.Sprintf("order %s shipped", order.Number),
		})

		result, err = repo.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderShipped(ctx, notifications.OrderEvent{
		OrderNumber: result.Number,
		Email:       result.Email,
		Total:       result.Total,
	}, trackingURL)
	return result, nil
}

// Cancel aborts an unpaid, unshipped order and returns its reservation to
// the free pool.
func (s *service) Cancel(ctx context.Context, orderID int64, actor string) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadForUpdate(ctx, repo, orderID)
		if err != nil {
			return err
		}

		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled")
		}
		if order.PaymentStatus == enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "paid orders cannot be cancelled")
		}
		if order.FulfillmentStatus == enums.FulfillmentStatusFulfilled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "fulfilled orders cannot be cancelled")
		}

		if err := s.stock.Release(ctx, tx, orderLines(order)); err != nil {
			return err
		}

		ok, err := repo.UpdateGuarded(ctx, order.ID, order.Version, map[string]any{
			"status": enums.OrderStatusCancelled,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		s.auditor.Record(ctx, tx, audit.Entry{
			Actor:      actor,
			Action:     "order.cancel",
			EntityType: "order",
			EntityID:   order.ID,
			Details:    fmt.Sprintf("order %s cancelled", order.Number),
		})

		result, err = repo.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func loadForUpdate(ctx context.Context, repo *Repository, orderID int64) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func orderLines(order *models.Order) []inventory.Line {
	lines := make([]inventory.Line, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, inventory.Line{VariantID: item.VariantID, Qty: item.Qty})
	}
	return lines
}
