package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Cleaner defines the retention operations needed by maintenance handlers.
// Satisfied by *service.CleanupService.
type Cleaner interface {
	CleanupCompletedOrders(ctx context.Context, storeID string) (int64, error)
	CleanupOldDailySales(ctx context.Context, storeID string) (int64, error)
}

// MaintenanceHandler exposes the retention sweep as an endpoint, so it can
// run from a cron job or a dashboard button.
type MaintenanceHandler struct {
	cleaner Cleaner
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(cleaner Cleaner) *MaintenanceHandler {
	return &MaintenanceHandler{cleaner: cleaner}
}

// RegisterRoutes registers maintenance endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}
func (h *MaintenanceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/maintenance/cleanup", h.Cleanup)
}

type cleanupResponse struct {
	OrdersDeleted     int64 `json:"orders_deleted"`
	DailySalesDeleted int64 `json:"daily_sales_deleted"`
}

// Cleanup removes completed orders from before today and daily sales rows
// past the retention window.
func (h *MaintenanceHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	orders, err := h.cleaner.CleanupCompletedOrders(r.Context(), sid)
	if err != nil {
		log.Printf("ERROR: cleanup completed orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	sales, err := h.cleaner.CleanupOldDailySales(r.Context(), sid)
	if err != nil {
		log.Printf("ERROR: cleanup daily sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, cleanupResponse{
		OrdersDeleted:     orders,
		DailySalesDeleted: sales,
	})
}
