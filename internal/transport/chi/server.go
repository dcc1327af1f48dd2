// Package chi exposes the storefront state core to the view layer as a
// small JSON API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kiosk-labs/storefront/internal/domain"
	"github.com/kiosk-labs/storefront/internal/metrics"
	browseuc "github.com/kiosk-labs/storefront/internal/usecase/browse"
	cartuc "github.com/kiosk-labs/storefront/internal/usecase/cart"
	healthuc "github.com/kiosk-labs/storefront/internal/usecase/health"
	prefuc "github.com/kiosk-labs/storefront/internal/usecase/preferences"
	queryuc "github.com/kiosk-labs/storefront/internal/usecase/query"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server hosts the view-layer JSON API over the state core.
type Server struct {
	cart          *cartuc.Service
	prefs         *prefuc.Service
	query         *queryuc.Debouncer
	browse        *browseuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	cart *cartuc.Service,
	prefs *prefuc.Service,
	query *queryuc.Debouncer,
	browse *browseuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		cart:   cart,
		prefs:  prefs,
		query:  query,
		browse: browse,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusBadGateway, codeCatalogUnavailable),
		sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeBadRequest),
	}
	return s
}

// Routes mounts all endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", s.GetCatalog)
		r.Get("/view", s.GetView)

		r.Get("/query", s.GetQuery)
		r.Put("/query", s.PutQuery)

		r.Get("/preferences", s.GetPreferences)
		r.Put("/preferences", s.PutPreferences)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.GetCart)
			r.Post("/items", s.AddCartItem)
			r.Put("/items/{id}", s.SetCartItemQuantity)
			r.Post("/items/{id}/decrement", s.DecrementCartItem)
			r.Delete("/items/{id}", s.RemoveCartItem)
		})
	})
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// GetCatalog handles GET /api/v1/catalog?page=N|all — a raw provider
// page, untouched by the pipeline.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	page := browseuc.PageAll
	if raw := r.URL.Query().Get("page"); raw != "" && raw != "all" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "page must be a positive number or \"all\"")
			return
		}
		page = parsed
	}

	products, err := s.browse.Page(r.Context(), page)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Data: products})
}

// GetView handles GET /api/v1/view — the derived, filtered and sorted
// product view.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := s.browse.View(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{
		Products:    view.Products,
		Categories:  view.Categories,
		Query:       view.Query,
		Preferences: view.Preferences,
	})
}

// GetQuery handles GET /api/v1/query.
func (s *Server) GetQuery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, queryResponse{
		Raw:     s.query.Raw(),
		Settled: s.query.Settled(),
	})
}

// PutQuery handles PUT /api/v1/query — one keystroke (or paste) of the
// search input.
func (s *Server) PutQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.query.Update(req.Q)
	writeJSON(w, http.StatusOK, queryResponse{
		Raw:     s.query.Raw(),
		Settled: s.query.Settled(),
	})
}

// GetPreferences handles GET /api/v1/preferences.
func (s *Server) GetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

// PutPreferences handles PUT /api/v1/preferences. Unknown sort keys
// and unparseable category filters degrade to safe defaults instead of
// failing.
func (s *Server) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.prefs.SetSortBy(req.SortBy)
	s.prefs.SetCategoryFilter(req.CategoryFilter)
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

// GetCart handles GET /api/v1/cart.
func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	s.writeCart(w)
}

// AddCartItem handles POST /api/v1/cart/items.
func (s *Server) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ID <= 0 || req.Price < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "item id must be positive and price non-negative")
		return
	}

	s.cart.AddOrIncrement(domain.CartItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Quantity: req.Quantity,
	})
	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	s.writeCart(w)
}

// SetCartItemQuantity handles PUT /api/v1/cart/items/{id} — the
// explicit target quantity computed by the +/- controls. A target
// below 1 removes the item.
func (s *Server) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "price must be non-negative")
		return
	}

	s.cart.SetQuantity(domain.CartItem{
		ID:       id,
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
	}, req.Quantity)
	metrics.CartMutationsTotal.WithLabelValues("set_quantity").Inc()
	s.writeCart(w)
}

// DecrementCartItem handles POST /api/v1/cart/items/{id}/decrement.
// Decrementing an absent id is a no-op, not an error.
func (s *Server) DecrementCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	s.cart.Decrement(id)
	metrics.CartMutationsTotal.WithLabelValues("decrement").Inc()
	s.writeCart(w)
}

// RemoveCartItem handles DELETE /api/v1/cart/items/{id}.
func (s *Server) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	s.cart.Remove(id)
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	s.writeCart(w)
}

func (s *Server) writeCart(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, cartResponse{
		Items: s.cart.Items(),
		Total: s.cart.TotalAmount(),
	})
}

// itemID parses the {id} URL parameter. Writes a 400 and returns false
// on malformed input.
func itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "item id must be a positive number")
		return 0, false
	}
	return id, true
}

// handleDomainError maps domain sentinels to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}

	s.logger.Error("unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// sentinelHandler builds an errorHandler matching a sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
