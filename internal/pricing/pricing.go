// Package pricing computes effective product prices.
package pricing

// SpecialPrice returns the effective unit price for a base price and a
// discount percentage (0-100). The discount amount is computed separately and
// then subtracted; callers depend on this exact operation order for stable
// floating-point results.
func SpecialPrice(price, discount float64) float64 {
	return price - (discount*0.01)*price
}
