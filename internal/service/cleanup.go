package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/scanorder-pos/api/internal/database"
)

// CleanupStore defines the DB methods needed by retention cleanup.
// Satisfied by *database.Queries.
type CleanupStore interface {
	DeleteCompletedOrdersBefore(ctx context.Context, arg database.DeleteCompletedOrdersBeforeParams) (int64, error)
	DeleteDailySalesBefore(ctx context.Context, arg database.DeleteDailySalesBeforeParams) (int64, error)
}

// CleanupService applies the two retention rules: completed orders are kept
// only for the current day, daily-sales aggregates for a fixed window. Both
// deletes are idempotent and run opportunistically from the counter
// dashboard rather than on a schedule.
type CleanupService struct {
	store         CleanupStore
	retentionDays int
	now           func() time.Time
}

// NewCleanupService creates a CleanupService with the given daily-sales
// retention window in days.
func NewCleanupService(store CleanupStore, retentionDays int) *CleanupService {
	return &CleanupService{store: store, retentionDays: retentionDays, now: time.Now}
}

// CleanupCompletedOrders deletes completed orders from before today and
// returns how many were removed.
func (s *CleanupService) CleanupCompletedOrders(ctx context.Context, storeID string) (int64, error) {
	n, err := s.store.DeleteCompletedOrdersBefore(ctx, database.DeleteCompletedOrdersBeforeParams{
		StoreID: storeID,
		Cutoff:  startOfDay(s.now()),
	})
	if err != nil {
		return 0, fmt.Errorf("delete completed orders: %w", err)
	}
	return n, nil
}

// CleanupOldDailySales deletes daily-sales aggregates older than the
// retention window and returns how many were removed.
func (s *CleanupService) CleanupOldDailySales(ctx context.Context, storeID string) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	n, err := s.store.DeleteDailySalesBefore(ctx, database.DeleteDailySalesBeforeParams{
		StoreID: storeID,
		Cutoff:  pgtype.Date{Time: cutoff, Valid: true},
	})
	if err != nil {
		return 0, fmt.Errorf("delete old daily sales: %w", err)
	}
	return n, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
