package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_DisabledWhenNoKeys(t *testing.T) {
	h := BearerAuthMiddleware(nil)(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/cart", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	h := BearerAuthMiddleware([]string{"secret"})(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/cart", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	h := BearerAuthMiddleware([]string{"secret"})(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/cart", http.NoBody)
	req.Header.Set("Authorization", "Basic secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestBearerAuth_InvalidKey(t *testing.T) {
	h := BearerAuthMiddleware([]string{"secret"})(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/cart", http.NoBody)
	req.Header.Set("Authorization", "Bearer wrong")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestBearerAuth_ValidKey(t *testing.T) {
	h := BearerAuthMiddleware([]string{"secret"})(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/cart", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestBearerAuth_ExemptPaths(t *testing.T) {
	h := BearerAuthMiddleware([]string{"secret"})(okHandler())

	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected %s to bypass auth, got %d", path, rr.Code)
		}
	}
}
