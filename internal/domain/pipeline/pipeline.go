// Package pipeline derives the product view shown to the user: a pure
// filter/sort pass over a fetched catalog page. It owns no state and
// never mutates its input.
package pipeline

import (
	"sort"
	"strings"

	"github.com/kiosk-labs/storefront/internal/domain"
)

// Apply filters and orders products. Stages run in a fixed order:
//
//  1. text filter — case-insensitive substring match of query against
//     the product name; an empty query keeps everything
//  2. category filter — nil keeps everything, otherwise numeric
//     membership in the product's category set
//  3. sort — price ascending, rating proxy descending, or stable
//     input order for any other key
//
// Identical inputs always yield an identical output sequence; ties keep
// their original relative order.
func Apply(products []domain.Product, query string, category *int, sortBy domain.SortKey) []domain.Product {
	q := strings.ToLower(query)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if category != nil && !p.HasCategory(*category) {
			continue
		}
		out = append(out, p)
	}

	switch sortBy {
	case domain.SortPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].NetPrice > out[j].NetPrice })
	}

	return out
}

// Categories returns the distinct category ids present in the given
// products, ascending. The view layer builds its category selector
// from this.
func Categories(products []domain.Product) []int {
	seen := make(map[int]struct{})
	for _, p := range products {
		for _, c := range p.Categories {
			seen[c] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}
