package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arjunpatil/vendortrack-backend/api/controllers"
	"github.com/arjunpatil/vendortrack-backend/api/middleware"
	"github.com/arjunpatil/vendortrack-backend/internal/auth"
	purchaseorder "github.com/arjunpatil/vendortrack-backend/internal/purchaseorders"
	vendor "github.com/arjunpatil/vendortrack-backend/internal/vendors"
	"github.com/arjunpatil/vendortrack-backend/pkg/auth/session"
	"github.com/arjunpatil/vendortrack-backend/pkg/config"
	"github.com/arjunpatil/vendortrack-backend/pkg/db"
	"github.com/arjunpatil/vendortrack-backend/pkg/logger"
	"github.com/arjunpatil/vendortrack-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	vendorService vendor.Service,
	poService purchaseorder.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/token", func(r chi.Router) {
		r.Post("/", controllers.AuthToken(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AuthRegister(authService, logg))
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", controllers.VendorCreate(vendorService, logg))
			r.Get("/", controllers.VendorList(vendorService, logg))
			r.Route("/{vendorCode}", func(r chi.Router) {
				r.Get("/", controllers.VendorGet(vendorService, logg))
				r.Put("/", controllers.VendorUpdate(vendorService, logg))
				r.Patch("/", controllers.VendorUpdate(vendorService, logg))
				r.Delete("/", controllers.VendorDelete(vendorService, logg))
				r.Get("/performance", controllers.VendorPerformance(vendorService, logg))
				r.Get("/history", controllers.VendorHistory(vendorService, logg))
			})
		})

		r.Route("/purchase_orders", func(r chi.Router) {
			r.Post("/", controllers.POCreate(poService, logg))
			r.Get("/", controllers.POList(poService, logg))
			r.Route("/{poNumber}", func(r chi.Router) {
				r.Get("/", controllers.POGet(poService, logg))
				r.Put("/", controllers.POUpdate(poService, logg))
				r.Patch("/", controllers.POUpdate(poService, logg))
				r.Delete("/", controllers.PODelete(poService, logg))
				r.Post("/acknowledge", controllers.POAcknowledge(poService, logg))
			})
		})
	})

	return r
}
