// Package pricing computes GST breakdowns, delivery charges and the frozen
// order summary charged at checkout. Every function in this package is pure:
// no I/O, no shared state, safe for concurrent use.
package pricing

import "math"

// Round rounds an amount to two decimal places, half away from zero on the
// scaled value. Every monetary intermediate passes through Round right after
// the operation that produced it, so per-line figures are individually exact
// and order totals are sums of already-rounded lines.
func Round(x float64) float64 {
	return math.Round(x*100) / 100
}
