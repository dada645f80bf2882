package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olivegrove/eshop-backend/api/responses"
	"github.com/olivegrove/eshop-backend/api/validators"
	checkoutsvc "github.com/olivegrove/eshop-backend/internal/checkout"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/logger"
)

type checkoutRequest struct {
	Email      string `json:"email" validate:"required,email"`
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Street1    string `json:"street1" validate:"required"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city" validate:"required"`
	Region     string `json:"region" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// Checkout turns the cart into an order from a structured address payload.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		cartID, err := validators.ParsePathInt64(chi.URLParam(r, "cartID"), "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), cartID, checkoutsvc.Request{
			Email:      payload.Email,
			FullName:   payload.FullName,
			Phone:      payload.Phone,
			Street1:    payload.Street1,
			Street2:    payload.Street2,
			City:       payload.City,
			Region:     payload.Region,
			PostalCode: payload.PostalCode,
			Country:    payload.Country,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type legacyCheckoutRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
}

// CheckoutLegacy accepts the old single-string address payload.
func CheckoutLegacy(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		cartID, err := validators.ParsePathInt64(chi.URLParam(r, "cartID"), "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload legacyCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SubmitLegacy(r.Context(), cartID, payload.Email, payload.Address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// OrderByNumber is the storefront order status lookup.
func OrderByNumber(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		number := validators.SanitizeString(chi.URLParam(r, "number"), 64)
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		order, err := svc.GetOrderByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
