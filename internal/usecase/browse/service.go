// Package browse composes the catalog provider, the settled query and
// the view preferences into the derived product view.
package browse

import (
	"context"
	"fmt"

	"github.com/kiosk-labs/storefront/internal/domain"
	"github.com/kiosk-labs/storefront/internal/domain/pipeline"
)

// View is the derived, filtered and ordered product set, together with
// the inputs that produced it so the front end can label results and
// build its category selector.
type View struct {
	Products    []domain.Product
	Categories  []int
	Query       string
	Preferences domain.Preferences
}

// Service produces views. It holds no state of its own — every call
// reads the current query and preferences and re-runs the pipeline.
type Service struct {
	catalog CatalogProvider
	query   QueryReader
	prefs   PreferenceReader
}

// New creates a browse service.
func New(catalog CatalogProvider, query QueryReader, prefs PreferenceReader) *Service {
	return &Service{catalog: catalog, query: query, prefs: prefs}
}

// View fetches the full catalog and applies the filter/sort pipeline
// with the settled query and active preferences.
func (s *Service) View(ctx context.Context) (View, error) {
	products, err := s.catalog.Products(ctx, PageAll)
	if err != nil {
		return View{}, fmt.Errorf("fetch catalog: %w", err)
	}

	q := s.query.Settled()
	prefs := s.prefs.Snapshot()

	return View{
		Products:    pipeline.Apply(products, q, prefs.CategoryFilter, prefs.SortBy),
		Categories:  pipeline.Categories(products),
		Query:       q,
		Preferences: prefs,
	}, nil
}

// Page returns a single raw provider page, untouched by the pipeline.
func (s *Service) Page(ctx context.Context, page int) ([]domain.Product, error) {
	products, err := s.catalog.Products(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog page %d: %w", page, err)
	}
	return products, nil
}
