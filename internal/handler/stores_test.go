package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scanorder-pos/api/internal/database"
	"github.com/scanorder-pos/api/internal/handler"
)

// --- Mock store ---

type mockStoreStore struct {
	stores map[string]database.Store
}

func newMockStoreStore() *mockStoreStore {
	return &mockStoreStore{stores: make(map[string]database.Store)}
}

func (m *mockStoreStore) CreateStore(_ context.Context, arg database.CreateStoreParams) (database.Store, error) {
	if _, ok := m.stores[arg.ID]; ok {
		return database.Store{}, &pgconn.PgError{Code: "23505", ConstraintName: "stores_pkey"}
	}
	s := database.Store{
		ID:           arg.ID,
		Name:         arg.Name,
		AdminKeyHash: arg.AdminKeyHash,
		Logo:         arg.Logo,
		Subtitle:     arg.Subtitle,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.stores[s.ID] = s
	return s, nil
}

func (m *mockStoreStore) GetStore(_ context.Context, id string) (database.Store, error) {
	s, ok := m.stores[id]
	if !ok {
		return database.Store{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockStoreStore) ListStores(_ context.Context) ([]database.Store, error) {
	var result []database.Store
	for _, s := range m.stores {
		result = append(result, s)
	}
	return result, nil
}

func (m *mockStoreStore) UpdateStore(_ context.Context, arg database.UpdateStoreParams) (database.Store, error) {
	s, ok := m.stores[arg.ID]
	if !ok {
		return database.Store{}, pgx.ErrNoRows
	}
	s.Name = arg.Name
	s.Logo = arg.Logo
	s.Subtitle = arg.Subtitle
	s.IsActive = arg.IsActive
	m.stores[s.ID] = s
	return s, nil
}

func (m *mockStoreStore) UpdateStoreAdminKey(_ context.Context, arg database.UpdateStoreAdminKeyParams) error {
	s, ok := m.stores[arg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	s.AdminKeyHash = arg.AdminKeyHash
	m.stores[s.ID] = s
	return nil
}

func (m *mockStoreStore) DeleteStore(_ context.Context, id string) (int64, error) {
	if _, ok := m.stores[id]; !ok {
		return 0, nil
	}
	delete(m.stores, id)
	return 1, nil
}

func setupStoreRouter(store *mockStoreStore) *chi.Mux {
	h := handler.NewStoreHandler(store)
	r := chi.NewRouter()
	r.Route("/stores", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestStoreCreate_Success(t *testing.T) {
	store := newMockStoreStore()
	router := setupStoreRouter(store)

	rr := doRequest(t, router, "POST", "/stores", map[string]string{
		"id":        "tea-house",
		"name":      "Tea House",
		"admin_key": "secret-key",
		"subtitle":  "Downtown branch",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["id"] != "tea-house" {
		t.Errorf("id: got %v, want tea-house", resp["id"])
	}
	if resp["is_active"] != true {
		t.Error("expected new store to be active")
	}
	if _, ok := resp["admin_key_hash"]; ok {
		t.Error("admin key hash must not appear in responses")
	}

	saved := store.stores["tea-house"]
	if saved.AdminKeyHash == "secret-key" {
		t.Error("admin key must be stored hashed")
	}
}

func TestStoreCreate_InvalidSlug(t *testing.T) {
	router := setupStoreRouter(newMockStoreStore())

	for _, id := range []string{"", "Tea House", "UPPER", "a", "-leading"} {
		rr := doRequest(t, router, "POST", "/stores", map[string]string{
			"id":        id,
			"name":      "Tea House",
			"admin_key": "secret-key",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("id %q: got %d, want %d", id, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestStoreCreate_ShortAdminKey(t *testing.T) {
	router := setupStoreRouter(newMockStoreStore())

	rr := doRequest(t, router, "POST", "/stores", map[string]string{
		"id":        "tea-house",
		"name":      "Tea House",
		"admin_key": "abc",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestStoreCreate_DuplicateSlug(t *testing.T) {
	store := newMockStoreStore()
	router := setupStoreRouter(store)

	req := map[string]string{
		"id":        "tea-house",
		"name":      "Tea House",
		"admin_key": "secret-key",
	}
	doRequest(t, router, "POST", "/stores", req)
	rr := doRequest(t, router, "POST", "/stores", req)

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestStoreGet_NotFound(t *testing.T) {
	router := setupStoreRouter(newMockStoreStore())

	rr := doRequest(t, router, "GET", "/stores/nope", nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestStoreUpdate_Deactivate(t *testing.T) {
	store := newMockStoreStore()
	store.stores["cafe1"] = database.Store{ID: "cafe1", Name: "Cafe One", IsActive: true}
	router := setupStoreRouter(store)

	rr := doRequest(t, router, "PUT", "/stores/cafe1", map[string]interface{}{
		"name":      "Cafe One",
		"is_active": false,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if store.stores["cafe1"].IsActive {
		t.Error("expected store to be deactivated")
	}
}

func TestStoreRotateAdminKey(t *testing.T) {
	store := newMockStoreStore()
	store.stores["cafe1"] = database.Store{ID: "cafe1", Name: "Cafe One", AdminKeyHash: "old", IsActive: true}
	router := setupStoreRouter(store)

	rr := doRequest(t, router, "PUT", "/stores/cafe1/admin-key", map[string]string{
		"admin_key": "new-secret",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if store.stores["cafe1"].AdminKeyHash == "old" {
		t.Error("expected admin key hash to change")
	}
}

func TestStoreDelete(t *testing.T) {
	store := newMockStoreStore()
	store.stores["cafe1"] = database.Store{ID: "cafe1", Name: "Cafe One"}
	router := setupStoreRouter(store)

	rr := doRequest(t, router, "DELETE", "/stores/cafe1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	rr = doRequest(t, router, "DELETE", "/stores/cafe1", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
