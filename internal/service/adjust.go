package service

import (
	"github.com/scanorder-pos/api/internal/database"
	"github.com/scanorder-pos/api/internal/price"
)

// UnavailableItem is one staff-selected (name, qty) pair to subtract from an
// order's total.
type UnavailableItem struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// MenuPriceIndex builds a name → parsed-price lookup from the live menu.
// Each price field goes through price.Parse, the same parser the cart total
// went through, so the subtraction stays consistent with what was charged.
func MenuPriceIndex(items []database.MenuItem) map[string]int64 {
	index := make(map[string]int64, len(items))
	for _, it := range items {
		index[it.Name] = price.Parse(it.Price)
	}
	return index
}

// ComputeAdjustedTotal subtracts the priced unavailable items from an
// order's original total. Items whose name is missing from the index (the
// menu item was deleted in the meantime) contribute nothing. The adjusted
// total is clamped at zero.
func ComputeAdjustedTotal(originalTotal int64, prices map[string]int64, unavailable []UnavailableItem) (adjusted, subtracted int64) {
	for _, u := range unavailable {
		if u.Qty <= 0 {
			continue
		}
		subtracted += prices[u.Name] * int64(u.Qty)
	}

	adjusted = originalTotal - subtracted
	if adjusted < 0 {
		adjusted = 0
	}
	return adjusted, subtracted
}
