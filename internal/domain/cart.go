package domain

// CartItem is a single ledger entry. ID is the product identity and the
// unique key within the ledger; Quantity is always >= 1 — an entry whose
// quantity would reach 0 is removed instead.
type CartItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category int     `json:"category"`
	Quantity int     `json:"quantity"`
}

// CartTotal returns the sum of price*quantity over the given items.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
