package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/olivegrove/eshop-backend/api/responses"
	"github.com/olivegrove/eshop-backend/internal/pricing"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/logger"
)

// ShippingQuote resolves a zone/weight pair to a bracket and cost.
func ShippingQuote(resolver *pricing.ShippingResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping resolver unavailable"))
			return
		}

		zone := strings.TrimSpace(r.URL.Query().Get("zone"))
		if zone == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "zone is required").
				WithDetails(map[string]any{"zones": resolver.Zones()}))
			return
		}

		rawWeight := strings.TrimSpace(r.URL.Query().Get("weight"))
		weight, err := strconv.ParseInt(rawWeight, 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "weight must be an integer gram value"))
			return
		}

		quote, err := resolver.Quote(zone, weight)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
