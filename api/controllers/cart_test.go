package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/olivegrove/eshop-backend/pkg/config"
	"github.com/olivegrove/eshop-backend/pkg/db/models"
	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
	"github.com/olivegrove/eshop-backend/pkg/logger"
	"github.com/olivegrove/eshop-backend/pkg/types"
)

type stubCartService struct {
	cart      *models.Cart
	err       error
	lastQty   int
	addCalled bool
}

func (s *stubCartService) Create(context.Context) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) GetWithItems(context.Context, int64) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItem(_ context.Context, _, _ int64, qty int) (*models.Cart, error) {
	s.addCalled = true
	s.lastQty = qty
	return s.cart, s.err
}

func (s *stubCartService) UpdateItemQuantity(_ context.Context, _, _ int64, qty int) (*models.Cart, error) {
	s.lastQty = qty
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(context.Context, int64, int64) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(context.Context, int64) (*models.Cart, error) {
	return s.cart, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testCart() *models.Cart {
	return &models.Cart{
		ID:       7,
		Subtotal: decimal.RequireFromString("25.00"),
		Total:    decimal.RequireFromString("35.00"),
	}
}

func requestWithParams(method, url string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, url, body)
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCartCreateSetsCookie(t *testing.T) {
	t.Parallel()
	stub := &stubCartService{cart: testCart()}
	shop := config.ShopConfig{CartCookieName: "cart_id", CartCookieMaxAge: 604800}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	CartCreate(stub, shop, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	cookie := rec.Result().Cookies()
	if len(cookie) != 1 || cookie[0].Name != "cart_id" || cookie[0].Value != "7" {
		t.Fatalf("unexpected cookies: %+v", cookie)
	}
	if cookie[0].MaxAge != 604800 {
		t.Fatalf("expected 7-day cookie, got %d", cookie[0].MaxAge)
	}
}

func TestCartAddItem(t *testing.T) {
	t.Parallel()
	stub := &stubCartService{cart: testCart()}

	req := requestWithParams(http.MethodPost, "/api/v1/cart/7/items",
		strings.NewReader(`{"variant_id":3,"qty":2}`), map[string]string{"cartID": "7"})
	rec := httptest.NewRecorder()
	CartAddItem(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !stub.addCalled || stub.lastQty != 2 {
		t.Fatalf("expected AddItem(qty=2), got called=%v qty=%d", stub.addCalled, stub.lastQty)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	t.Parallel()
	stub := &stubCartService{cart: testCart()}

	req := requestWithParams(http.MethodPost, "/api/v1/cart/7/items",
		strings.NewReader(`{"variant_id":3}`), map[string]string{"cartID": "7"})
	rec := httptest.NewRecorder()
	CartAddItem(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing qty, got %d", rec.Code)
	}
	if stub.addCalled {
		t.Fatal("service should not be reached on invalid body")
	}
}

func TestCartFetchBadPathID(t *testing.T) {
	t.Parallel()
	stub := &stubCartService{cart: testCart()}

	req := requestWithParams(http.MethodGet, "/api/v1/cart/abc", nil, map[string]string{"cartID": "abc"})
	rec := httptest.NewRecorder()
	CartFetch(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartFetchNotFound(t *testing.T) {
	t.Parallel()
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}

	req := requestWithParams(http.MethodGet, "/api/v1/cart/9", nil, map[string]string{"cartID": "9"})
	rec := httptest.NewRecorder()
	CartFetch(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
