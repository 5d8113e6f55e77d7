package enum

// ── Order lifecycle (CHECK constrained in DB) ──
//
// Transitions are monotonic: pending → preparing → completed. A pending
// order may be completed directly from the counter; nothing ever moves
// backwards.

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
)

// ── Authorization scopes ──
//
// SUPERADMIN operates at platform scope (store management). STAFF tokens are
// minted from a store admin-key login and are bound to a single store.

const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleStaff      = "STAFF"
)

// IsValidOrderStatus reports whether s names a known lifecycle state.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted:
		return true
	}
	return false
}
