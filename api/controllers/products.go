package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olivegrove/eshop-backend/api/responses"
	"github.com/olivegrove/eshop-backend/api/validators"
	catalogsvc "github.com/olivegrove/eshop-backend/internal/catalog"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/logger"
	"github.com/olivegrove/eshop-backend/pkg/pagination"
)

// ProductBrowse is the storefront listing with filters.
func ProductBrowse(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		harvestYear, err := validators.ParseQueryIntPtr(r, "harvest_year")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minPrice, err := validators.ParseQueryDecimalPtr(r, "min_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryDecimalPtr(r, "max_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := catalogsvc.BrowseQuery{
			Type:        validators.SanitizeString(r.URL.Query().Get("type"), 64),
			HarvestYear: harvestYear,
			MinPrice:    minPrice,
			MaxPrice:    maxPrice,
			InStock:     strings.EqualFold(r.URL.Query().Get("in_stock"), "true"),
		}

		page, err := svc.Browse(r.Context(), params, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductDetail is the storefront product page payload.
func ProductDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		view, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PageSize: pageSize}, nil
}
