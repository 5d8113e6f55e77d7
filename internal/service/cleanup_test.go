package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scanorder-pos/api/internal/database"
)

type mockCleanupStore struct {
	deleteOrdersFn func(ctx context.Context, arg database.DeleteCompletedOrdersBeforeParams) (int64, error)
	deleteSalesFn  func(ctx context.Context, arg database.DeleteDailySalesBeforeParams) (int64, error)
}

func (m *mockCleanupStore) DeleteCompletedOrdersBefore(ctx context.Context, arg database.DeleteCompletedOrdersBeforeParams) (int64, error) {
	return m.deleteOrdersFn(ctx, arg)
}

func (m *mockCleanupStore) DeleteDailySalesBefore(ctx context.Context, arg database.DeleteDailySalesBeforeParams) (int64, error) {
	return m.deleteSalesFn(ctx, arg)
}

func TestCleanupCompletedOrdersUsesStartOfToday(t *testing.T) {
	var gotCutoff time.Time
	store := &mockCleanupStore{
		deleteOrdersFn: func(ctx context.Context, arg database.DeleteCompletedOrdersBeforeParams) (int64, error) {
			gotCutoff = arg.Cutoff
			return 4, nil
		},
	}
	svc := NewCleanupService(store, 30)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 15, 42, 7, 0, time.UTC)
	}

	n, err := svc.CleanupCompletedOrders(context.Background(), "cafe1")
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if n != 4 {
		t.Errorf("deleted: got %d, want 4", n)
	}

	want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !gotCutoff.Equal(want) {
		t.Errorf("cutoff: got %v, want %v", gotCutoff, want)
	}
}

func TestCleanupOldDailySalesUsesRetentionWindow(t *testing.T) {
	var gotCutoff time.Time
	store := &mockCleanupStore{
		deleteSalesFn: func(ctx context.Context, arg database.DeleteDailySalesBeforeParams) (int64, error) {
			gotCutoff = arg.Cutoff.Time
			return 2, nil
		},
	}
	svc := NewCleanupService(store, 30)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	}

	n, err := svc.CleanupOldDailySales(context.Background(), "cafe1")
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted: got %d, want 2", n)
	}

	want := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if !gotCutoff.Equal(want) {
		t.Errorf("cutoff: got %v, want %v", gotCutoff, want)
	}
}

// Re-running with nothing eligible deletes nothing.
func TestCleanupIsIdempotent(t *testing.T) {
	remaining := int64(3)
	store := &mockCleanupStore{
		deleteOrdersFn: func(ctx context.Context, arg database.DeleteCompletedOrdersBeforeParams) (int64, error) {
			n := remaining
			remaining = 0
			return n, nil
		},
	}
	svc := NewCleanupService(store, 30)

	first, err := svc.CleanupCompletedOrders(context.Background(), "cafe1")
	if err != nil {
		t.Fatalf("first cleanup: %v", err)
	}
	if first != 3 {
		t.Errorf("first run: got %d, want 3", first)
	}

	second, err := svc.CleanupCompletedOrders(context.Background(), "cafe1")
	if err != nil {
		t.Fatalf("second cleanup: %v", err)
	}
	if second != 0 {
		t.Errorf("second run: got %d, want 0", second)
	}
}

func TestCleanupPropagatesStoreErrors(t *testing.T) {
	dbErr := errors.New("connection reset")
	store := &mockCleanupStore{
		deleteOrdersFn: func(ctx context.Context, arg database.DeleteCompletedOrdersBeforeParams) (int64, error) {
			return 0, dbErr
		},
		deleteSalesFn: func(ctx context.Context, arg database.DeleteDailySalesBeforeParams) (int64, error) {
			return 0, dbErr
		},
	}
	svc := NewCleanupService(store, 30)

	if _, err := svc.CleanupCompletedOrders(context.Background(), "cafe1"); !errors.Is(err, dbErr) {
		t.Errorf("orders: got %v, want wrapped %v", err, dbErr)
	}
	if _, err := svc.CleanupOldDailySales(context.Background(), "cafe1"); !errors.Is(err, dbErr) {
		t.Errorf("sales: got %v, want wrapped %v", err, dbErr)
	}
}
