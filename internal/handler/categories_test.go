package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scanorder-pos/api/internal/database"
	"github.com/scanorder-pos/api/internal/handler"
)

// --- Mock store ---

type mockCategoryStore struct {
	categories map[uuid.UUID]database.Category
}

func newMockCategoryStore() *mockCategoryStore {
	return &mockCategoryStore{categories: make(map[uuid.UUID]database.Category)}
}

func (m *mockCategoryStore) ListCategoriesByStore(_ context.Context, storeID string) ([]database.Category, error) {
	var result []database.Category
	for _, c := range m.categories {
		if c.StoreID == storeID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCategoryStore) CreateCategory(_ context.Context, arg database.CreateCategoryParams) (database.Category, error) {
	for _, c := range m.categories {
		if c.StoreID == arg.StoreID && c.Name == arg.Name {
			return database.Category{}, &pgconn.PgError{Code: "23505"}
		}
	}
	c := database.Category{
		ID:        uuid.New(),
		StoreID:   arg.StoreID,
		Name:      arg.Name,
		SortOrder: arg.SortOrder,
		CreatedAt: time.Now(),
	}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) UpdateCategory(_ context.Context, arg database.UpdateCategoryParams) (database.Category, error) {
	c, ok := m.categories[arg.ID]
	if !ok || c.StoreID != arg.StoreID {
		return database.Category{}, pgx.ErrNoRows
	}
	c.Name = arg.Name
	c.SortOrder = arg.SortOrder
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) DeleteCategory(_ context.Context, arg database.DeleteCategoryParams) (int64, error) {
	c, ok := m.categories[arg.ID]
	if !ok || c.StoreID != arg.StoreID {
		return 0, nil
	}
	delete(m.categories, c.ID)
	return 1, nil
}

func setupCategoryRouter(store *mockCategoryStore) *chi.Mux {
	h := handler.NewCategoryHandler(store)
	r := chi.NewRouter()
	r.Route("/stores/{sid}/categories", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestCategoryList_Empty(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	rr := doRequest(t, router, "GET", "/stores/cafe1/categories", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if resp := decodeListResponse(t, rr); len(resp) != 0 {
		t.Errorf("expected empty list, got %d items", len(resp))
	}
}

func TestCategoryCreate_Success(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "POST", "/stores/cafe1/categories", map[string]interface{}{
		"name":       "Drinks",
		"sort_order": 1,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["name"] != "Drinks" {
		t.Errorf("name: got %v, want Drinks", resp["name"])
	}
	if resp["store_id"] != "cafe1" {
		t.Errorf("store_id: got %v, want cafe1", resp["store_id"])
	}
}

func TestCategoryCreate_DuplicateName(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	body := map[string]interface{}{"name": "Drinks"}
	doRequest(t, router, "POST", "/stores/cafe1/categories", body)
	rr := doRequest(t, router, "POST", "/stores/cafe1/categories", body)

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestCategoryCreate_MissingName(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	rr := doRequest(t, router, "POST", "/stores/cafe1/categories", map[string]interface{}{
		"sort_order": 1,
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCategoryUpdate_RenameKeepsID(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "POST", "/stores/cafe1/categories", map[string]interface{}{"name": "Drinks"})
	created := decodeResponse(t, rr)
	id := created["id"].(string)

	rr = doRequest(t, router, "PUT", "/stores/cafe1/categories/"+id, map[string]interface{}{
		"name":       "Beverages",
		"sort_order": 2,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["id"] != id {
		t.Errorf("id changed on rename: got %v, want %v", resp["id"], id)
	}
	if resp["name"] != "Beverages" {
		t.Errorf("name: got %v, want Beverages", resp["name"])
	}
}

func TestCategoryUpdate_WrongStore(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "POST", "/stores/cafe1/categories", map[string]interface{}{"name": "Drinks"})
	id := decodeResponse(t, rr)["id"].(string)

	rr = doRequest(t, router, "PUT", "/stores/cafe2/categories/"+id, map[string]interface{}{
		"name": "Beverages",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCategoryDelete(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "POST", "/stores/cafe1/categories", map[string]interface{}{"name": "Drinks"})
	id := decodeResponse(t, rr)["id"].(string)

	rr = doRequest(t, router, "DELETE", "/stores/cafe1/categories/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	rr = doRequest(t, router, "DELETE", "/stores/cafe1/categories/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCategoryDelete_InvalidID(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	rr := doRequest(t, router, "DELETE", "/stores/cafe1/categories/not-a-uuid", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
