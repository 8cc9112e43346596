package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/config"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health      handler.HealthHandler
	Auth        handler.AuthHandler
	Home        handler.HomeHandler
	Docs        handler.DocsHandler
	Products    handler.ProductHandler
	Categories  handler.CategoryHandler
	Customers   handler.CustomerHandler
	Suppliers   handler.SupplierHandler
	Cart        handler.CartHandler
	Sales       handler.SaleHandler
	Procurement handler.ProcurementHandler
	Shifts      handler.ShiftHandler
	Calendar    handler.CalendarHandler
	Closings    handler.ClosingHandler
	Ledger      handler.LedgerHandler
	Performance handler.PerformanceHandler
	Team        handler.TeamHandler
	Activity    handler.ActivityLogHandler
	Settings    handler.SettingsHandler
	Dashboard   handler.DashboardHandler
	Mail        handler.MailHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	h.Health.RegisterRoutes(r)
	h.Auth.RegisterRoutes(r)
	h.Home.RegisterRoutes(r)
	h.Docs.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		h.Auth.RegisterProtectedRoutes(pr)
		// staff-level (staff/manager/admin)
		pr.Group(func(sr chi.Router) {
			sr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleStaff))
			h.Products.RegisterRoutes(sr)
			h.Categories.RegisterRoutes(sr)
			h.Customers.RegisterRoutes(sr)
			h.Cart.RegisterRoutes(sr)
			h.Sales.RegisterRoutes(sr)
			h.Shifts.RegisterRoutes(sr)
			h.Calendar.RegisterRoutes(sr)
			h.Closings.RegisterRoutes(sr)
		})
		// manager-level (manager/admin)
		pr.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager))
			h.Dashboard.RegisterRoutes(mr)
			h.Suppliers.RegisterRoutes(mr)
			h.Procurement.RegisterRoutes(mr)
			h.Ledger.RegisterRoutes(mr)
			h.Performance.RegisterRoutes(mr)
			h.Team.RegisterRoutes(mr)
			h.Activity.RegisterRoutes(mr)
			h.Settings.RegisterRoutes(mr)
			h.Mail.RegisterRoutes(mr)
		})
	})

	return r
}
