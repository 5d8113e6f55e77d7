package service

import (
	"strconv"
	"strings"
)

// Order items are stored as a single joined string, the way the ordering
// front-end submits them: entries separated by " | ", quantity appended as
// " x<digits>" ("Tea x2 | Coffee x1"). Parsing is deliberately best-effort:
// the string is display text first and data second.
const (
	itemDelimiter = " | "
	qtyMarker     = " x"
)

// OrderLine is one parsed entry of an order's items string.
type OrderLine struct {
	Text string // the raw segment as displayed
	Name string // item name with the quantity suffix stripped
	Qty  int
}

// ParseOrderItems splits a stored items string into ordered lines. Malformed
// input never fails: segments without a quantity suffix count as one of the
// whole segment. Names may themselves contain " x", so the quantity split
// uses the rightmost marker and only when the segment ends in a digit.
func ParseOrderItems(items string) []OrderLine {
	var lines []OrderLine
	for _, seg := range strings.Split(items, itemDelimiter) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		line := OrderLine{Text: seg, Name: seg, Qty: 1}
		if endsInDigit(seg) {
			if idx := strings.LastIndex(seg, qtyMarker); idx > 0 {
				name := strings.TrimSpace(seg[:idx])
				if name != "" {
					line.Name = name
					if qty, err := strconv.Atoi(seg[idx+len(qtyMarker):]); err == nil && qty > 0 {
						line.Qty = qty
					}
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// JoinOrderItems is the inverse used when building an items string from
// structured cart entries.
func JoinOrderItems(lines []OrderLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Name + qtyMarker + strconv.Itoa(l.Qty)
	}
	return strings.Join(parts, itemDelimiter)
}

func endsInDigit(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c >= '0' && c <= '9'
}
