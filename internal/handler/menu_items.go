package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/scanorder-pos/api/internal/database"
	"github.com/scanorder-pos/api/internal/price"
)

// MenuItemStore defines the database methods needed by menu item handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuItemStore interface {
	ListMenuItemsByStore(ctx context.Context, storeID string) ([]database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	DeleteMenuItem(ctx context.Context, arg database.DeleteMenuItemParams) (int64, error)
}

// MenuItemHandler handles menu item CRUD endpoints.
type MenuItemHandler struct {
	store MenuItemStore
}

// NewMenuItemHandler creates a new MenuItemHandler.
func NewMenuItemHandler(store MenuItemStore) *MenuItemHandler {
	return &MenuItemHandler{store: store}
}

// RegisterRoutes registers menu item CRUD endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/menu-items
func (h *MenuItemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createMenuItemRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Name       string     `json:"name"`
	Price      string     `json:"price"`
}

type updateMenuItemRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Name       string     `json:"name"`
	Price      string     `json:"price"`
}

type menuItemResponse struct {
	ID         uuid.UUID  `json:"id"`
	StoreID    string     `json:"store_id"`
	CategoryID *uuid.UUID `json:"category_id"`
	Name       string     `json:"name"`
	Price      string     `json:"price"`
	PriceValue int64      `json:"price_value"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toMenuItemResponse(m database.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:         m.ID,
		StoreID:    m.StoreID,
		Name:       m.Name,
		Price:      m.Price,
		PriceValue: price.Parse(m.Price),
		CreatedAt:  m.CreatedAt,
	}
	if m.CategoryID.Valid {
		id := uuid.UUID(m.CategoryID.Bytes)
		resp.CategoryID = &id
	}
	return resp
}

func optionalUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// --- Handlers ---

// List returns all menu items for the given store. Public: the customer
// menu page reads this without authentication.
func (h *MenuItemHandler) List(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	items, err := h.store.ListMenuItemsByStore(r.Context(), sid)
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = toMenuItemResponse(m)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new menu item to the given store. The price is stored as
// entered; parsing to a numeric value happens at order time.
func (h *MenuItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	var req createMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	item, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		StoreID:    sid,
		CategoryID: optionalUUID(req.CategoryID),
		Name:       req.Name,
		Price:      req.Price,
	})
	if err != nil {
		log.Printf("ERROR: create menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

// Update modifies a menu item.
func (h *MenuItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req updateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	item, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		ID:         id,
		StoreID:    sid,
		CategoryID: optionalUUID(req.CategoryID),
		Name:       req.Name,
		Price:      req.Price,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: update menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Delete removes a menu item.
func (h *MenuItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	n, err := h.store.DeleteMenuItem(r.Context(), database.DeleteMenuItemParams{
		ID:      id,
		StoreID: sid,
	})
	if err != nil {
		log.Printf("ERROR: delete menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}
