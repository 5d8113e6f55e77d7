package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/scanorder-pos/api/internal/handler"
)

type mockCleaner struct {
	ordersFn func(storeID string) (int64, error)
	salesFn  func(storeID string) (int64, error)
}

func (m *mockCleaner) CleanupCompletedOrders(_ context.Context, storeID string) (int64, error) {
	return m.ordersFn(storeID)
}

func (m *mockCleaner) CleanupOldDailySales(_ context.Context, storeID string) (int64, error) {
	return m.salesFn(storeID)
}

func setupMaintenanceRouter(cleaner *mockCleaner) *chi.Mux {
	h := handler.NewMaintenanceHandler(cleaner)
	r := chi.NewRouter()
	r.Route("/stores/{sid}", h.RegisterRoutes)
	return r
}

func TestMaintenanceCleanup_ReportsCounts(t *testing.T) {
	cleaner := &mockCleaner{
		ordersFn: func(storeID string) (int64, error) {
			if storeID != "cafe1" {
				t.Errorf("store ID: got %q, want cafe1", storeID)
			}
			return 12, nil
		},
		salesFn: func(_ string) (int64, error) { return 3, nil },
	}
	router := setupMaintenanceRouter(cleaner)

	rr := doRequest(t, router, "POST", "/stores/cafe1/maintenance/cleanup", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["orders_deleted"] != float64(12) {
		t.Errorf("orders_deleted: got %v, want 12", resp["orders_deleted"])
	}
	if resp["daily_sales_deleted"] != float64(3) {
		t.Errorf("daily_sales_deleted: got %v, want 3", resp["daily_sales_deleted"])
	}
}

func TestMaintenanceCleanup_OrderSweepError(t *testing.T) {
	cleaner := &mockCleaner{
		ordersFn: func(_ string) (int64, error) { return 0, errors.New("db down") },
		salesFn: func(_ string) (int64, error) {
			t.Fatal("sales sweep should not run after order sweep fails")
			return 0, nil
		},
	}
	router := setupMaintenanceRouter(cleaner)

	rr := doRequest(t, router, "POST", "/stores/cafe1/maintenance/cleanup", nil)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
