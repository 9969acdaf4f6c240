// Package metrics holds the Prometheus collectors for directory searches,
// the response cache and the fixture server's HTTP handlers.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search records directory search outcomes. A nil *Search is a no-op.
type Search struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	cache    *prometheus.CounterVec
}

// NewSearch registers the search collectors on reg. Collectors already
// registered by an earlier call are reused.
func NewSearch(reg prometheus.Registerer) (*Search, error) {
	s := &Search{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "userdir",
			Name:      "search_requests_total",
			Help:      "Total directory search requests by status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "userdir",
			Name:      "search_duration_seconds",
			Help:      "Directory search duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "userdir",
			Name:      "cache_total",
			Help:      "Search response cache hits, misses and errors.",
		}, []string{"result"}),
	}
	if reg == nil {
		return s, nil
	}
	if err := registerOrReuse(reg, &s.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &s.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &s.cache); err != nil {
		return nil, err
	}
	return s, nil
}

// Observe records one finished search.
func (s *Search) Observe(err error, dur time.Duration) {
	if s == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.requests.WithLabelValues(status).Inc()
	s.duration.Observe(dur.Seconds())
}

// CacheResult records a cache lookup: "hit", "miss" or "error".
func (s *Search) CacheResult(result string) {
	if s == nil {
		return
	}
	s.cache.WithLabelValues(result).Inc()
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}
