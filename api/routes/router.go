package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olivegrove/eshop-backend/api/controllers"
	"github.com/olivegrove/eshop-backend/api/middleware"
	cartsvc "github.com/olivegrove/eshop-backend/internal/cart"
	catalogsvc "github.com/olivegrove/eshop-backend/internal/catalog"
	checkoutsvc "github.com/olivegrove/eshop-backend/internal/checkout"
	ordersvc "github.com/olivegrove/eshop-backend/internal/orders"
	"github.com/olivegrove/eshop-backend/internal/pricing"
	"github.com/olivegrove/eshop-backend/pkg/config"
	"github.com/olivegrove/eshop-backend/pkg/db"
	"github.com/olivegrove/eshop-backend/pkg/logger"
	"github.com/olivegrove/eshop-backend/pkg/metrics"
	pkgredis "github.com/olivegrove/eshop-backend/pkg/redis"
)

type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *pkgredis.Client
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	Shipping *pricing.ShippingResolver
	Catalog  catalogsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var idemStore pkgredis.IdempotencyStore
	var redisPinger pkgredis.Pinger
	if deps.Redis != nil {
		idemStore = deps.Redis
		redisPinger = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.CorrelationID(logg),
		middleware.Metrics(deps.Metrics),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductBrowse(deps.Catalog, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(deps.Catalog, logg))

		r.Get("/shipping/quote", controllers.ShippingQuote(deps.Shipping, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", controllers.CartCreate(deps.Cart, cfg.Shop, logg))
			r.Get("/{cartID}", controllers.CartFetch(deps.Cart, logg))
			r.Delete("/{cartID}", controllers.CartClear(deps.Cart, logg))
			r.Post("/{cartID}/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/{cartID}/items/{variantID}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/{cartID}/items/{variantID}", controllers.CartRemoveItem(deps.Cart, logg))
		})

		r.Group(func(r chi.Router) {
			if deps.Redis != nil {
				policy := middleware.NewRateLimitPolicy("checkout", time.Minute, 30)
				r.Use(middleware.RateLimit(policy, deps.Redis, logg))
			}
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Post("/checkout/{cartID}", controllers.Checkout(deps.Checkout, logg))
			r.Post("/checkout/{cartID}/legacy", controllers.CheckoutLegacy(deps.Checkout, logg))
		})

		r.Get("/orders/{number}", controllers.OrderByNumber(deps.Checkout, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.Orders, logg))
			r.Get("/{orderID}", controllers.AdminOrderDetail(deps.Orders, logg))
			r.Post("/{orderID}/pay", controllers.AdminOrderPay(deps.Orders, logg))
			r.Post("/{orderID}/ship", controllers.AdminOrderShip(deps.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.AdminOrderCancel(deps.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(deps.Catalog, logg))
			r.Post("/", controllers.AdminProductCreate(deps.Catalog, logg))
			r.Get("/{productID}", controllers.AdminProductDetail(deps.Catalog, logg))
			r.Put("/{productID}", controllers.AdminProductUpdate(deps.Catalog, logg))
			r.Delete("/{productID}", controllers.AdminProductDelete(deps.Catalog, logg))
		})

		r.Route("/variants", func(r chi.Router) {
			r.Post("/", controllers.AdminVariantCreate(deps.Catalog, logg))
			r.Put("/{variantID}", controllers.AdminVariantUpdate(deps.Catalog, logg))
			r.Delete("/{variantID}", controllers.AdminVariantDelete(deps.Catalog, logg))
		})

		r.Route("/lots", func(r chi.Router) {
			r.Post("/", controllers.AdminLotCreate(deps.Catalog, logg))
			r.Put("/{lotID}", controllers.AdminLotUpdate(deps.Catalog, logg))
			r.Delete("/{lotID}", controllers.AdminLotDelete(deps.Catalog, logg))
		})
	})

	return r
}
