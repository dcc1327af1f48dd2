package cart

import "github.com/kiosk-labs/storefront/internal/domain"

// cartStateDTO is the persisted wire shape of the ledger.
type cartStateDTO struct {
	Items []cartItemDTO `json:"items"`
}

type cartItemDTO struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category int     `json:"category"`
	Quantity int     `json:"quantity"`
}

func toDTO(items []domain.CartItem) cartStateDTO {
	out := cartStateDTO{Items: make([]cartItemDTO, len(items))}
	for i, it := range items {
		out.Items[i] = cartItemDTO(it)
	}
	return out
}

// fromDTO rebuilds ledger items, dropping entries that violate the
// ledger invariants (quantity < 1, duplicate id, negative price).
func fromDTO(dto cartStateDTO) []domain.CartItem {
	seen := make(map[int]struct{}, len(dto.Items))
	out := make([]domain.CartItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		if it.Quantity < 1 || it.Price < 0 {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, domain.CartItem(it))
	}
	return out
}
