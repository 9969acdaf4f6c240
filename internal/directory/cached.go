package directory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"userdir/internal/cache"
	"userdir/internal/metrics"
)

// CachedSearcher serves repeated requests from a cache. Cache failures are
// logged and fall through to the wrapped Searcher.
type CachedSearcher struct {
	next    Searcher
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Search
}

var _ Searcher = (*CachedSearcher)(nil)

// NewCachedSearcher wraps next. A nil cache returns next unchanged.
func NewCachedSearcher(next Searcher, c cache.Cache, ttl time.Duration, logger *zap.Logger, m *metrics.Search) Searcher {
	if c == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{next: next, cache: c, ttl: ttl, logger: logger, metrics: m}
}

// Search implements Searcher.
func (s *CachedSearcher) Search(ctx context.Context, req Request) (Response, error) {
	key := req.CacheKey()

	var cached Response
	hit, err := s.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		s.metrics.CacheResult("error")
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	case hit:
		s.metrics.CacheResult("hit")
		return cached, nil
	default:
		s.metrics.CacheResult("miss")
	}

	resp, err := s.next.Search(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if err := s.cache.Set(ctx, key, resp, s.ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return resp, nil
}
