package browse

import (
	"context"

	"github.com/kiosk-labs/storefront/internal/domain"
)

// CatalogProvider fetches products from the remote catalog. page >= 1
// requests a fixed-size page; PageAll requests the full catalog.
type CatalogProvider interface {
	Products(ctx context.Context, page int) ([]domain.Product, error)
}

// PageAll asks the provider for the full catalog instead of a page.
const PageAll = 0

// QueryReader exposes the settled search query.
type QueryReader interface {
	Settled() string
}

// PreferenceReader exposes the active view preferences.
type PreferenceReader interface {
	Snapshot() domain.Preferences
}
