package domain

// ProductImage is an image attached to a catalog product.
type ProductImage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Product is a catalog product as returned by the remote provider.
// The core never mutates products; NetPrice doubles as the rating proxy
// used by the rating sort.
type Product struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	EAN         string         `json:"ean"`
	UPC         string         `json:"upc"`
	Image       string         `json:"image"`
	Images      []ProductImage `json:"images"`
	NetPrice    float64        `json:"net_price"`
	Taxes       float64        `json:"taxes"`
	Price       float64        `json:"price"`
	Categories  []int          `json:"categories"`
	Tags        []string       `json:"tags"`
}

// HasCategory reports whether the product belongs to the given category.
func (p Product) HasCategory(category int) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}
