package chi

import "github.com/kiosk-labs/storefront/internal/domain"

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned by the API.
const (
	codeBadRequest         = "bad_request"
	codeUnauthorized       = "unauthorized"
	codeNotFound           = "not_found"
	codeCatalogUnavailable = "catalog_unavailable"
)

// addItemRequest is the POST /cart/items payload. Quantity is honored
// only on first insert; repeated adds step by 1.
type addItemRequest struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category int     `json:"category"`
	Quantity int     `json:"quantity"`
}

// setQuantityRequest is the PUT /cart/items/{id} payload. Name, price
// and category describe the item in case the id is not in the ledger
// yet and has to be inserted.
type setQuantityRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category int     `json:"category"`
	Quantity int     `json:"quantity"`
}

// cartResponse is the ledger plus its recomputed total.
type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// queryRequest is the PUT /query payload (one keystroke or paste).
type queryRequest struct {
	Q string `json:"q"`
}

// queryResponse exposes both the raw and the settled query value.
type queryResponse struct {
	Raw     string `json:"raw"`
	Settled string `json:"settled"`
}

// preferencesRequest is the PUT /preferences payload. CategoryFilter
// carries the selector text; coercion to a numeric category happens in
// the preference store.
type preferencesRequest struct {
	SortBy         string  `json:"sort_by"`
	CategoryFilter *string `json:"category_filter"`
}

// viewResponse is the derived product view together with the inputs
// that produced it.
type viewResponse struct {
	Products    []domain.Product   `json:"products"`
	Categories  []int              `json:"categories"`
	Query       string             `json:"query"`
	Preferences domain.Preferences `json:"preferences"`
}

// catalogResponse mirrors the provider envelope for raw page reads.
type catalogResponse struct {
	Data []domain.Product `json:"data"`
}
