package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skeldnet/cosmetics-backend/api/controllers"
	"github.com/skeldnet/cosmetics-backend/api/middleware"
	"github.com/skeldnet/cosmetics-backend/internal/bundles"
	"github.com/skeldnet/cosmetics-backend/internal/entitlements"
	"github.com/skeldnet/cosmetics-backend/internal/items"
	"github.com/skeldnet/cosmetics-backend/internal/purchases"
	"github.com/skeldnet/cosmetics-backend/pkg/accounts"
	"github.com/skeldnet/cosmetics-backend/pkg/config"
	"github.com/skeldnet/cosmetics-backend/pkg/logger"
	"github.com/skeldnet/cosmetics-backend/pkg/metrics"
	"github.com/skeldnet/cosmetics-backend/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Verifier     accounts.Verifier
	Redis        *redis.Client
	HTTPMetrics  *metrics.HTTPMetrics
	Items        items.Service
	Bundles      bundles.Service
	Purchases    purchases.Service
	Entitlements entitlements.Service
	Readiness    map[string]controllers.Pinger
}

// NewRouter assembles the full HTTP surface. Catalog reads are public;
// everything touching money or user state sits behind Auth.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware())
	}

	purchaseLimit := func(next http.Handler) http.Handler { return next }
	if d.Redis != nil {
		purchasePolicy := middleware.NewPurchaseRateLimitPolicy(
			"purchase",
			cfg.RateLimit.PurchaseWindow,
			cfg.RateLimit.PurchaseUserLimit,
			cfg.RateLimit.PurchaseIPLimit,
		)
		purchaseLimit = middleware.PurchaseRateLimit(purchasePolicy, d.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Readiness))
	})
	if d.HTTPMetrics != nil {
		r.Method(http.MethodGet, "/metrics", d.HTTPMetrics.Handler())
	}

	auth := middleware.Auth(d.Verifier, logg)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/item", func(r chi.Router) {
			r.Get("/auid/{amongUsId}", controllers.ItemGetByAmongUsID(d.Items, logg))
			r.Get("/{id}", controllers.ItemGet(d.Items, logg))
			r.With(auth, middleware.RequirePerk(accounts.PerkItemCreate, logg)).
				Put("/{id}", controllers.ItemCreate(d.Items, logg))
			r.With(auth, middleware.RequirePerk(accounts.PerkItemUpdate, logg)).
				Patch("/{id}", controllers.ItemUpdate(d.Items, logg))
		})

		r.Route("/bundle", func(r chi.Router) {
			r.Get("/", controllers.BundleList(d.Bundles, logg))
			r.Get("/{id}", controllers.BundleGet(d.Bundles, logg))
			r.With(auth, middleware.RequirePerk(accounts.PerkBundleCreate, logg)).
				Put("/{id}", controllers.BundleCreate(d.Bundles, logg))
			r.With(auth, middleware.RequirePerk(accounts.PerkBundleUpdate, logg)).
				Patch("/{id}", controllers.BundleUpdate(d.Bundles, logg))
			r.With(auth, purchaseLimit).
				Post("/{id}/purchase/steam", controllers.PurchaseCreate(d.Purchases, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", controllers.PurchaseList(d.Purchases, logg))
			r.Get("/userTier/{user}", controllers.PurchaseUserTier(d.Purchases, logg))
			r.Get("/{id}", controllers.PurchaseGet(d.Purchases, logg))
			r.Get("/{id}/vendor", controllers.PurchaseVendorStatus(d.Purchases, logg))
			r.With(middleware.RequirePerk(accounts.PerkPurchaseUpdate, logg)).
				Patch("/{id}", controllers.PurchaseUpdate(d.Purchases, logg))
			r.With(purchaseLimit).
				Post("/{id}/finalise", controllers.PurchaseFinalize(d.Purchases, logg))
		})

		r.With(auth).Get("/user/{user}/items", controllers.UserItems(d.Entitlements, logg))
	})

	return r
}
