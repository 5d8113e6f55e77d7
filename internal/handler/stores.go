package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/scanorder-pos/api/internal/database"
	"golang.org/x/crypto/bcrypt"
)

// StoreStore defines the database methods needed by store handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type StoreStore interface {
	CreateStore(ctx context.Context, arg database.CreateStoreParams) (database.Store, error)
	GetStore(ctx context.Context, id string) (database.Store, error)
	ListStores(ctx context.Context) ([]database.Store, error)
	UpdateStore(ctx context.Context, arg database.UpdateStoreParams) (database.Store, error)
	UpdateStoreAdminKey(ctx context.Context, arg database.UpdateStoreAdminKeyParams) error
	DeleteStore(ctx context.Context, id string) (int64, error)
}

// StoreHandler handles store management endpoints (super-admin only).
type StoreHandler struct {
	store StoreStore
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(store StoreStore) *StoreHandler {
	return &StoreHandler{store: store}
}

// RegisterRoutes registers store management endpoints on the given Chi router.
func (h *StoreHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{sid}", h.Get)
	r.Put("/{sid}", h.Update)
	r.Put("/{sid}/admin-key", h.RotateAdminKey)
	r.Delete("/{sid}", h.Delete)
}

// Store slugs end up in QR code URLs, so keep them short and URL-safe.
var storeSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)

// --- Request / Response types ---

type createStoreRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AdminKey string `json:"admin_key"`
	Logo     string `json:"logo"`
	Subtitle string `json:"subtitle"`
}

type updateStoreRequest struct {
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Subtitle string `json:"subtitle"`
	IsActive bool   `json:"is_active"`
}

type rotateAdminKeyRequest struct {
	AdminKey string `json:"admin_key"`
}

type storeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Logo      *string   `json:"logo"`
	Subtitle  *string   `json:"subtitle"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toStoreResponse(s database.Store) storeResponse {
	resp := storeResponse{
		ID:        s.ID,
		Name:      s.Name,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
	if s.Logo.Valid {
		resp.Logo = &s.Logo.String
	}
	if s.Subtitle.Valid {
		resp.Subtitle = &s.Subtitle.String
	}
	return resp
}

func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// --- Handlers ---

// List returns all stores on the platform.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.store.ListStores(r.Context())
	if err != nil {
		log.Printf("ERROR: list stores: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]storeResponse, len(stores))
	for i, s := range stores {
		resp[i] = toStoreResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create provisions a new store with its admin key.
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !storeSlugPattern.MatchString(req.ID) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "store ID must be a lowercase slug"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if len(req.AdminKey) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "admin key must be at least 6 characters"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminKey), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: hash admin key: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	store, err := h.store.CreateStore(r.Context(), database.CreateStoreParams{
		ID:           req.ID,
		Name:         req.Name,
		AdminKeyHash: string(hash),
		Logo:         optionalText(req.Logo),
		Subtitle:     optionalText(req.Subtitle),
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "store ID already taken"})
			return
		}
		log.Printf("ERROR: create store: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toStoreResponse(store))
}

// Get returns a single store.
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	store, err := h.store.GetStore(r.Context(), sid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
			return
		}
		log.Printf("ERROR: get store: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toStoreResponse(store))
}

// Update modifies a store's display attributes and active flag.
func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	var req updateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	store, err := h.store.UpdateStore(r.Context(), database.UpdateStoreParams{
		ID:       sid,
		Name:     req.Name,
		Logo:     optionalText(req.Logo),
		Subtitle: optionalText(req.Subtitle),
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
			return
		}
		log.Printf("ERROR: update store: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toStoreResponse(store))
}

// RotateAdminKey replaces a store's admin key. Existing staff tokens stay
// valid until they expire; only new logins need the new key.
func (h *StoreHandler) RotateAdminKey(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	var req rotateAdminKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.AdminKey) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "admin key must be at least 6 characters"})
		return
	}

	if _, err := h.store.GetStore(r.Context(), sid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
			return
		}
		log.Printf("ERROR: get store: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminKey), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: hash admin key: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.store.UpdateStoreAdminKey(r.Context(), database.UpdateStoreAdminKeyParams{
		ID:           sid,
		AdminKeyHash: string(hash),
	}); err != nil {
		log.Printf("ERROR: rotate admin key: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "admin key updated"})
}

// Delete removes a store and everything under it.
func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")

	n, err := h.store.DeleteStore(r.Context(), sid)
	if err != nil {
		log.Printf("ERROR: delete store: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "store deleted"})
}
