package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olivegrove/eshop-backend/api/middleware"
	"github.com/olivegrove/eshop-backend/api/responses"
	"github.com/olivegrove/eshop-backend/api/validators"
	ordersvc "github.com/olivegrove/eshop-backend/internal/orders"
	"github.com/olivegrove/eshop-backend/pkg/db/models"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/logger"
	"github.com/olivegrove/eshop-backend/pkg/pagination"
)

// AdminOrderList pages orders newest first with optional status filters.
func AdminOrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := ordersvc.ListQuery{
			Status:            validators.SanitizeString(r.URL.Query().Get("status"), 32),
			PaymentStatus:     validators.SanitizeString(r.URL.Query().Get("payment_status"), 32),
			FulfillmentStatus: validators.SanitizeString(r.URL.Query().Get("fulfillment_status"), 32),
		}

		page, err := svc.List(r.Context(), params, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]orderResponse, 0, len(page.Items))
		for i := range page.Items {
			views = append(views, newOrderResponse(&page.Items[i]))
		}
		responses.WriteSuccess(w, pagination.NewResult(views, params, page.TotalCount))
	}
}

// AdminOrderDetail loads one order with its items.
func AdminOrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathInt64(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// AdminOrderPay records payment and commits the stock reservation.
func AdminOrderPay(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminOrderAction(svc, logg, func(r *http.Request, svc ordersvc.Service, orderID int64, actor string) (*models.Order, error) {
		return svc.MarkPaid(r.Context(), orderID, actor)
	})
}

type shipOrderRequest struct {
	TrackingURL string `json:"tracking_url" validate:"required,url"`
}

// AdminOrderShip marks a paid order fulfilled with a tracking link.
func AdminOrderShip(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminOrderAction(svc, logg, func(r *http.Request, svc ordersvc.Service, orderID int64, actor string) (*models.Order, error) {
		var payload shipOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.Ship(r.Context(), orderID, payload.TrackingURL, actor)
	})
}

// AdminOrderCancel cancels an unpaid order and releases its reservation.
func AdminOrderCancel(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminOrderAction(svc, logg, func(r *http.Request, svc ordersvc.Service, orderID int64, actor string) (*models.Order, error) {
		return svc.Cancel(r.Context(), orderID, actor)
	})
}

func adminOrderAction(
	svc ordersvc.Service,
	logg *logger.Logger,
	action func(*http.Request, ordersvc.Service, int64, string) (*models.Order, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathInt64(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		if actor == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing"))
			return
		}

		order, err := action(r, svc, orderID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
