package domain

// SortKey selects the ordering applied by the product view pipeline.
type SortKey string

const (
	// SortNone leaves the provider order untouched.
	SortNone SortKey = "none"
	// SortPrice orders by price, ascending.
	SortPrice SortKey = "price"
	// SortRating orders by the rating proxy (net price), descending.
	SortRating SortKey = "rating"
)

// ParseSortKey maps selector text to a SortKey. Unknown values degrade
// to SortNone (stable pass-through), they are not an error.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPrice:
		return SortPrice
	case SortRating:
		return SortRating
	default:
		return SortNone
	}
}

// Preferences holds the user's view preferences. CategoryFilter is nil
// when no category constraint is active.
type Preferences struct {
	SortBy         SortKey `json:"sort_by"`
	CategoryFilter *int    `json:"category_filter"`
}
