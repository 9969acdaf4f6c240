package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSearch_ObserveByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewSearch(reg)
	if err != nil {
		t.Fatalf("NewSearch: %v", err)
	}

	s.Observe(nil, 10*time.Millisecond)
	s.Observe(nil, 20*time.Millisecond)
	s.Observe(errors.New("boom"), time.Millisecond)

	if got := testutil.ToFloat64(s.requests.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.requests.WithLabelValues("error")); got != 1 {
		t.Errorf("error requests = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(s.duration); got != 1 {
		t.Errorf("expected one duration histogram, got %d", got)
	}
}

func TestSearch_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSearch(reg)
	if err != nil {
		t.Fatalf("first NewSearch: %v", err)
	}
	second, err := NewSearch(reg)
	if err != nil {
		t.Fatalf("second NewSearch: %v", err)
	}

	first.CacheResult("hit")
	second.CacheResult("hit")

	if got := testutil.ToFloat64(first.cache.WithLabelValues("hit")); got != 2 {
		t.Errorf("shared cache counter = %v, want 2", got)
	}
}

func TestSearch_NilIsNoop(t *testing.T) {
	var s *Search
	s.Observe(nil, time.Second)
	s.CacheResult("miss")
}

func TestHTTPMiddleware_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := NewHTTP(reg)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	r := chi.NewRouter()
	r.Use(h.Middleware())
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/42", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := testutil.ToFloat64(h.total.WithLabelValues("GET", "/users/{id}", "404")); got != 1 {
		t.Errorf("http_requests_total = %v, want 1", got)
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewSearch(reg)
	if err != nil {
		t.Fatalf("NewSearch: %v", err)
	}
	s.Observe(nil, time.Millisecond)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "userdir_search_requests_total") {
		t.Errorf("metrics output missing search counter:\n%s", rr.Body.String())
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/users/search", "/users/search"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
