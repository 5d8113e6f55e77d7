package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/scanorder-pos/api/internal/database"
	"github.com/scanorder-pos/api/internal/price"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryDays = 7
	maxHistoryDays     = 90
)

// ReportStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportStore interface {
	GetDailySales(ctx context.Context, arg database.GetDailySalesParams) (database.DailySale, error)
	ListDailySalesSince(ctx context.Context, arg database.ListDailySalesSinceParams) ([]database.DailySale, error)
}

// ReportHandler handles the counter-side sales report endpoints.
type ReportHandler struct {
	store ReportStore
	now   func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store, now: time.Now}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily-sales", h.Today)
	r.Get("/daily-sales/history", h.History)
}

// --- Response types ---

type dailySalesResponse struct {
	Date         string `json:"date"`
	Total        int64  `json:"total"`
	TotalDisplay string `json:"total_display"`
	OrderCount   int64  `json:"order_count"`
	AverageOrder string `json:"average_order"`
}

func toDailySalesResponse(d database.DailySale) dailySalesResponse {
	resp := dailySalesResponse{
		Total:        d.Total,
		TotalDisplay: price.Format(d.Total),
		OrderCount:   d.OrderCount,
		AverageOrder: "0",
	}
	if d.SalesDate.Valid {
		resp.Date = d.SalesDate.Time.Format("2006-01-02")
	}
	if d.OrderCount > 0 {
		avg := decimal.NewFromInt(d.Total).DivRound(decimal.NewFromInt(d.OrderCount), 2)
		resp.AverageOrder = avg.String()
	}
	return resp
}

// --- Handlers ---

// Today returns the running totals for the current day. A day with no
// completed orders yet reads as zeros rather than 404, so the dashboard
// renders the same shape all day.
func (h *ReportHandler) Today(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	today := pgtype.Date{Time: h.now(), Valid: true}

	sales, err := h.store.GetDailySales(r.Context(), database.GetDailySalesParams{
		StoreID:   sid,
		SalesDate: today,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusOK, dailySalesResponse{
				Date:         h.now().Format("2006-01-02"),
				TotalDisplay: price.Format(0),
				AverageOrder: "0",
			})
			return
		}
		log.Printf("ERROR: get daily sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toDailySalesResponse(sales))
}

// History returns per-day totals for the last ?days= days (default 7).
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	days := defaultHistoryDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxHistoryDays {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be between 1 and 90"})
			return
		}
		days = n
	}

	since := pgtype.Date{Time: h.now().AddDate(0, 0, -(days - 1)), Valid: true}

	sales, err := h.store.ListDailySalesSince(r.Context(), database.ListDailySalesSinceParams{
		StoreID: sid,
		Since:   since,
	})
	if err != nil {
		log.Printf("ERROR: list daily sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]dailySalesResponse, len(sales))
	for i, d := range sales {
		resp[i] = toDailySalesResponse(d)
	}

	writeJSON(w, http.StatusOK, resp)
}
