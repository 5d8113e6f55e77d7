package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/scanorder-pos/api/internal/database"
	"github.com/scanorder-pos/api/internal/enum"
	"github.com/scanorder-pos/api/internal/price"
	"github.com/scanorder-pos/api/internal/service"
	"github.com/scanorder-pos/api/internal/ws"
)

// OrderServicer defines the lifecycle operations needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Submit(ctx context.Context, req service.SubmitOrderRequest) (database.Order, error)
	MarkPreparing(ctx context.Context, storeID, orderID string, unavailable []service.UnavailableItem) (database.Order, error)
	MarkCompleted(ctx context.Context, storeID, orderID string) (*service.CompleteResult, error)
}

// OrderReadStore defines the database methods order handlers read directly.
// Satisfied by *database.Queries.
type OrderReadStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
}

// Notifier pushes events to the store's counter dashboards.
// Satisfied by *ws.Hub.
type Notifier interface {
	BroadcastToStore(storeID string, event ws.Event)
}

// OrderHandler handles order submission, tracking and lifecycle endpoints.
type OrderHandler struct {
	svc      OrderServicer
	store    OrderReadStore
	notifier Notifier
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderReadStore, notifier Notifier) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, notifier: notifier}
}

// RegisterPublicRoutes registers the customer-facing endpoints.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/orders
func (h *OrderHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/", h.Submit)
	r.Get("/{id}/track", h.Track)
}

// RegisterStaffRoutes registers the counter-side endpoints.
func (h *OrderHandler) RegisterStaffRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/preparing", h.MarkPreparing)
	r.Post("/{id}/complete", h.MarkCompleted)
}

// --- Request / Response types ---

type submitOrderRequest struct {
	TableNo string `json:"table_no"`
	Items   string `json:"items"`
	Total   int64  `json:"total"`
}

type markPreparingRequest struct {
	Unavailable []service.UnavailableItem `json:"unavailable"`
}

type orderLineResponse struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	StoreID          string              `json:"store_id"`
	TableNo          string              `json:"table_no"`
	Items            string              `json:"items"`
	Lines            []orderLineResponse `json:"lines"`
	Total            int64               `json:"total"`
	TotalDisplay     string              `json:"total_display"`
	Status           string              `json:"status"`
	UnavailableItems *string             `json:"unavailable_items"`
	AdjustedTotal    *int64              `json:"adjusted_total"`
	CreatedAt        string              `json:"created_at"`
}

// trackResponse is the customer-facing projection: lifecycle state and any
// adjustment, without the counter-side bookkeeping.
type trackResponse struct {
	ID               string  `json:"id"`
	TableNo          string  `json:"table_no"`
	Items            string  `json:"items"`
	Total            int64   `json:"total"`
	TotalDisplay     string  `json:"total_display"`
	Status           string  `json:"status"`
	UnavailableItems *string `json:"unavailable_items"`
	AdjustedTotal    *int64  `json:"adjusted_total"`
	CreatedAt        string  `json:"created_at"`
}

func toOrderResponse(o database.Order) orderResponse {
	lines := service.ParseOrderItems(o.Items)
	respLines := make([]orderLineResponse, len(lines))
	for i, l := range lines {
		respLines[i] = orderLineResponse{Name: l.Name, Qty: l.Qty}
	}

	resp := orderResponse{
		ID:           o.ID,
		StoreID:      o.StoreID,
		TableNo:      o.TableNo,
		Items:        o.Items,
		Lines:        respLines,
		Total:        o.Total,
		TotalDisplay: price.Format(service.EffectiveTotal(o)),
		Status:       o.Status,
		CreatedAt:    displayTime(o.CreatedAt),
	}
	if o.UnavailableItems.Valid {
		resp.UnavailableItems = &o.UnavailableItems.String
	}
	if o.AdjustedTotal.Valid {
		resp.AdjustedTotal = &o.AdjustedTotal.Int64
	}
	return resp
}

func toTrackResponse(o database.Order) trackResponse {
	full := toOrderResponse(o)
	return trackResponse{
		ID:               full.ID,
		TableNo:          full.TableNo,
		Items:            full.Items,
		Total:            full.Total,
		TotalDisplay:     full.TotalDisplay,
		Status:           full.Status,
		UnavailableItems: full.UnavailableItems,
		AdjustedTotal:    full.AdjustedTotal,
		CreatedAt:        full.CreatedAt,
	}
}

func (h *OrderHandler) notify(storeID, eventType string, o database.Order) {
	payload, err := json.Marshal(toOrderResponse(o))
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", eventType, err)
		return
	}
	h.notifier.BroadcastToStore(storeID, ws.Event{Type: eventType, Payload: payload})
}

// --- Handlers ---

// Submit creates a new pending order from a customer's cart. Public: the
// menu page posts here after a QR scan, no authentication involved.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.svc.Submit(r.Context(), service.SubmitOrderRequest{
		StoreID: sid,
		TableNo: req.TableNo,
		Items:   req.Items,
		Total:   req.Total,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyItems),
			errors.Is(err, service.ErrEmptyTable),
			errors.Is(err, service.ErrInvalidTotal):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrStoreNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
		case errors.Is(err, service.ErrStoreInactive):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "store is not active"})
		default:
			log.Printf("ERROR: submit order: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	h.notify(sid, "order.created", order)

	writeJSON(w, http.StatusCreated, toTrackResponse(order))
}

// Track returns the customer-facing view of an order.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	id := chi.URLParam(r, "id")

	order, err := h.store.GetOrder(r.Context(), database.GetOrderParams{StoreID: sid, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toTrackResponse(order))
}

// List returns a store's orders, optionally filtered by ?status=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	var status pgtype.Text
	if s := r.URL.Query().Get("status"); s != "" {
		if !enum.IsValidOrderStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		status = pgtype.Text{String: s, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{
		StoreID: sid,
		Status:  status,
	})
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns the counter-side view of a single order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	id := chi.URLParam(r, "id")

	order, err := h.store.GetOrder(r.Context(), database.GetOrderParams{StoreID: sid, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// MarkPreparing accepts the order, optionally flagging items the kitchen
// has run out of; the adjusted total is computed server-side.
func (h *OrderHandler) MarkPreparing(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	id := chi.URLParam(r, "id")

	var req markPreparingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.svc.MarkPreparing(r.Context(), sid, id, req.Unavailable)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, service.ErrAlreadyStarted):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order is no longer pending"})
		default:
			log.Printf("ERROR: mark order preparing: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	h.notify(sid, "order.preparing", order)

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// MarkCompleted finishes an order and books its total into daily sales.
// Safe to retry: a repeat completion returns the order without booking
// again.
func (h *OrderHandler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	id := chi.URLParam(r, "id")

	result, err := h.svc.MarkCompleted(r.Context(), sid, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		default:
			log.Printf("ERROR: mark order completed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	if result.Booked {
		h.notify(sid, "order.completed", result.Order)
	}

	writeJSON(w, http.StatusOK, toOrderResponse(result.Order))
}
