package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kiosk-labs/storefront/internal/domain"
	browseuc "github.com/kiosk-labs/storefront/internal/usecase/browse"
	cartuc "github.com/kiosk-labs/storefront/internal/usecase/cart"
	healthuc "github.com/kiosk-labs/storefront/internal/usecase/health"
	prefuc "github.com/kiosk-labs/storefront/internal/usecase/preferences"
	queryuc "github.com/kiosk-labs/storefront/internal/usecase/query"
)

type stubCatalog struct {
	products []domain.Product
	err      error
}

func (s *stubCatalog) Products(_ context.Context, _ int) ([]domain.Product, error) {
	return s.products, s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

func newTestServer(t *testing.T, catalog *stubCatalog) *httptest.Server {
	t.Helper()

	cart := cartuc.New(nil)
	prefs := prefuc.New()
	// Hour-long delay: only the char-window fast path settles in tests.
	query := queryuc.New(time.Hour, 4)
	t.Cleanup(query.Close)

	browse := browseuc.New(catalog, query, prefs)
	health := healthuc.New(&stubPinger{}, nil)

	srv := NewServer(cart, prefs, query, browse, health, zap.NewNop())
	r := chirouter.NewRouter()
	srv.Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestCartFlow(t *testing.T) {
	ts := newTestServer(t, &stubCatalog{})

	item := addItemRequest{ID: 1, Name: "widget", Price: 10, Category: 2, Quantity: 1}

	var cart cartResponse
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/v1/cart/items", item, &cart); code != 200 {
		t.Fatalf("add: status %d", code)
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/v1/cart/items", item, &cart); code != 200 {
		t.Fatalf("second add: status %d", code)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 || cart.Total != 20 {
		t.Fatalf("after two adds: %+v", cart)
	}

	if code := doJSON(t, http.MethodPost, ts.URL+"/api/v1/cart/items/1/decrement", nil, &cart); code != 200 {
		t.Fatalf("decrement: status %d", code)
	}
	if cart.Items[0].Quantity != 1 || cart.Total != 10 {
		t.Fatalf("after decrement: %+v", cart)
	}

	if code := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/cart/items/1", nil, &cart); code != 200 {
		t.Fatalf("remove: status %d", code)
	}
	if len(cart.Items) != 0 || cart.Total != 0 {
		t.Fatalf("after remove: %+v", cart)
	}
}

func TestSetCartItemQuantity_InsertsAndRemoves(t *testing.T) {
	ts := newTestServer(t, &stubCatalog{})

	var cart cartResponse
	set := setQuantityRequest{Name: "widget", Price: 5, Category: 1, Quantity: 3}
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/v1/cart/items/7", set, &cart); code != 200 {
		t.Fatalf("set quantity: status %d", code)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("after insert via set: %+v", cart)
	}

	set.Quantity = 0
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/v1/cart/items/7", set, &cart); code != 200 {
		t.Fatalf("set zero: status %d", code)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("quantity 0 should remove: %+v", cart)
	}
}

func TestAddCartItem_RejectsBadPayload(t *testing.T) {
	ts := newTestServer(t, &stubCatalog{})

	bad := addItemRequest{ID: 0, Price: 10}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/v1/cart/items", bad, nil); code != 400 {
		t.Fatalf("expected 400 for id 0, got %d", code)
	}

	if code := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/cart/items/notanumber", nil, nil); code != 400 {
		t.Fatalf("expected 400 for malformed id, got %d", code)
	}
}

func TestView_FiltersBySettledQuery(t *testing.T) {
	ts := newTestServer(t, &stubCatalog{products: []domain.Product{
		{ID: 1, Name: "Wireless Mouse", Price: 25, NetPrice: 3.5, Categories: []int{10}},
		{ID: 2, Name: "Keyboard", Price: 90, NetPrice: 4.8, Categories: []int{10}},
	}})

	// Long enough for the char-window fast path to settle synchronously.
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/v1/query", queryRequest{Q: "mouse"}, nil); code != 200 {
		t.Fatalf("put query: status %d", code)
	}

	var view viewResponse
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/v1/view", nil, &view); code != 200 {
		t.Fatalf("get view: status %d", code)
	}
	if len(view.Products) != 1 || view.Products[0].ID != 1 {
		t.Fatalf("expected only the mouse, got %+v", view.Products)
	}
	if view.Query != "mouse" {
		t.Fatalf("view should echo the settled query, got %q", view.Query)
	}
	if len(view.Categories) != 1 || view.Categories[0] != 10 {
		t.Fatalf("unexpected categories: %v", view.Categories)
	}
}

func TestView_CatalogFailureMapsTo502(t *testing.T) {
	ts := newTestServer(t, &stubCatalog{err: domain.ErrCatalogUnavailable})

	var errResp errorResponse
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/v1/view", nil, &errResp); code != 502 {
		t.Fatalf("expected 502, got %d", code)
	}
	if errResp.Code != codeCatalogUnavailable {
		t.Fatalf("unexpected error code %q", errResp.Code)
	}
}

func TestPreferences_RoundTripAndCoercion(t *testing.T) {
	ts := newTestServer(t, &stubCatalog{})

	cat := "12"
	var prefs domain.Preferences
	code := doJSON(t, http.MethodPut, ts.URL+"/api/v1/preferences",
		preferencesRequest{SortBy: "rating", CategoryFilter: &cat}, &prefs)
	if code != 200 {
		t.Fatalf("put preferences: status %d", code)
	}
	if prefs.SortBy != domain.SortRating || prefs.CategoryFilter == nil || *prefs.CategoryFilter != 12 {
		t.Fatalf("unexpected preferences: %+v", prefs)
	}

	junk := "electronics"
	code = doJSON(t, http.MethodPut, ts.URL+"/api/v1/preferences",
		preferencesRequest{SortBy: "rating", CategoryFilter: &junk}, &prefs)
	if code != 200 {
		t.Fatalf("put junk filter: status %d", code)
	}
	if prefs.CategoryFilter != nil {
		t.Fatalf("unparseable filter should clear, got %d", *prefs.CategoryFilter)
	}
}

func TestQuery_RawSettledReadback(t *testing.T) {
	ts := newTestServer(t, &stubCatalog{})

	// 1-char update: slow path, settled stays empty (delay is an hour).
	var q queryResponse
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/v1/query", queryRequest{Q: "a"}, &q); code != 200 {
		t.Fatalf("put query: status %d", code)
	}
	if q.Raw != "a" || q.Settled != "" {
		t.Fatalf("expected raw-only update, got %+v", q)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &stubCatalog{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
