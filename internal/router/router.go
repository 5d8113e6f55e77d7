package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scanorder-pos/api/internal/config"
	"github.com/scanorder-pos/api/internal/database"
	"github.com/scanorder-pos/api/internal/enum"
	"github.com/scanorder-pos/api/internal/handler"
	mw "github.com/scanorder-pos/api/internal/middleware"
	"github.com/scanorder-pos/api/internal/service"
	"github.com/scanorder-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Customer-facing routes (menu, order submission, tracking) are public;
// counter and platform routes sit behind authentication with store scoping.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/stores/{sid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(queries, pool, newOrderStore)
	orderHandler := handler.NewOrderHandler(orderService, queries, hub)
	storeHandler := handler.NewStoreHandler(queries)
	categoryHandler := handler.NewCategoryHandler(queries)
	menuItemHandler := handler.NewMenuItemHandler(queries)

	r.Route("/stores", func(r chi.Router) {
		// Platform store provisioning (SUPERADMIN only)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			r.Use(mw.RequireRole(enum.RoleSuperAdmin))
			r.Get("/", storeHandler.List)
			r.Post("/", storeHandler.Create)
		})

		r.Route("/{sid}", func(r chi.Router) {
			// Store record management (SUPERADMIN only)
			r.Group(func(r chi.Router) {
				r.Use(mw.Authenticate(cfg.JWTSecret))
				r.Use(mw.RequireRole(enum.RoleSuperAdmin))
				r.Get("/", storeHandler.Get)
				r.Put("/", storeHandler.Update)
				r.Put("/admin-key", storeHandler.RotateAdminKey)
				r.Delete("/", storeHandler.Delete)
			})

			// Customer menu (public, reached from the QR code on the table)
			r.Get("/menu-items", menuItemHandler.List)
			r.Get("/categories", categoryHandler.List)

			// Orders: submission and tracking are public, lifecycle is staff
			r.Route("/orders", func(r chi.Router) {
				orderHandler.RegisterPublicRoutes(r)

				r.Group(func(r chi.Router) {
					r.Use(mw.Authenticate(cfg.JWTSecret))
					r.Use(mw.RequireStore)
					orderHandler.RegisterStaffRoutes(r)
				})
			})

			// Counter management
			r.Route("/manage", func(r chi.Router) {
				r.Use(mw.Authenticate(cfg.JWTSecret))
				r.Use(mw.RequireStore)

				r.Route("/categories", categoryHandler.RegisterRoutes)
				r.Route("/menu-items", menuItemHandler.RegisterRoutes)

				reportHandler := handler.NewReportHandler(queries)
				reportHandler.RegisterRoutes(r)

				cleanupService := service.NewCleanupService(queries, cfg.SalesRetentionDays)
				maintenanceHandler := handler.NewMaintenanceHandler(cleanupService)
				maintenanceHandler.RegisterRoutes(r)
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
