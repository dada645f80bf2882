package notifications

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/olivegrove/eshop-backend/pkg/logger"
)

// OrderEvent carries the order facts every notification mentions.
type OrderEvent struct {
	OrderNumber string
	Email       string
	Total       decimal.Decimal
}

// Notifier emits customer-facing order events. Delivery is best effort; the
// order flow never waits on or fails because of a notification.
type Notifier interface {
	OrderReceived(ctx context.Context, event OrderEvent)
	PaymentReceived(ctx context.Context, event OrderEvent)
	OrderShipped(ctx context.Context, event OrderEvent, trackingURL string)
}

type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier emits notifications as structured log events. A mail or
// webhook transport can replace it behind the same interface.
func NewLogNotifier(logg *logger.Logger) (Notifier, error) {
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &logNotifier{logger: logg}, nil
}

func (n *logNotifier) OrderReceived(ctx context.Context, event OrderEvent) {
	n.logger.Info(n.eventCtx(ctx, event, "order_received"), "order received notification")
}

func (n *logNotifier) PaymentReceived(ctx context.Context, event OrderEvent) {
	n.logger.Info(n.eventCtx(ctx, event, "payment_received"), "payment received notification")
}

func (n *logNotifier) OrderShipped(ctx context.Context, event OrderEvent, trackingURL string) {
	ctx = n.eventCtx(ctx, event, "order_shipped")
	if trackingURL != "" {
		ctx = n.logger.WithField(ctx, "tracking_url", trackingURL)
	}
	n.logger.Info(ctx, "order shipped notification")
}

func (n *logNotifier) eventCtx(ctx context.Context, event OrderEvent, kind string) context.Context {
	return n.logger.WithFields(ctx, map[string]any{
		"event":        kind,
		"order_number": event.OrderNumber,
		"email":        event.Email,
		"total":        event.Total.StringFixed(2),
	})
}
