package directory_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"userdir/internal/cache"
	"userdir/internal/directory"
	"userdir/internal/fixture"
	"userdir/internal/metrics"
)

func TestRequest_URL(t *testing.T) {
	tests := []struct {
		name string
		req  directory.Request
		want string
	}{
		{
			name: "no city",
			req:  directory.Request{Query: "john", Limit: 1000, Skip: 0},
			want: "https://dummyjson.com/users/search?q=john&limit=1000&skip=0",
		},
		{
			name: "city appended last",
			req:  directory.Request{Query: "", Limit: 1000, Skip: 20, City: "San Francisco"},
			want: "https://dummyjson.com/users/search?q=&limit=1000&skip=20&city=San+Francisco",
		},
		{
			name: "query escaped",
			req:  directory.Request{Query: "a&b", Limit: 1000},
			want: "https://dummyjson.com/users/search?q=a%26b&limit=1000&skip=0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.URL("https://dummyjson.com/", ""))
		})
	}
}

func TestClient_SearchAgainstFixture(t *testing.T) {
	srv := httptest.NewServer(fixture.NewRouter(fixture.NewStore(fixture.DefaultUsers()), fixture.RouterConfig{}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m, err := metrics.NewSearch(reg)
	require.NoError(t, err)

	client := directory.NewClient(srv.URL, directory.WithMetrics(m), directory.WithTimeout(5*time.Second))
	resp, err := client.Search(context.Background(), directory.Request{Query: "john", Limit: 1000})
	require.NoError(t, err)
	assert.NotZero(t, resp.Total)
	assert.Len(t, resp.Users, resp.Total)

	resp, err = client.Search(context.Background(), directory.Request{Limit: 1000, City: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	expected := `
# HELP userdir_search_requests_total Total directory search requests by status.
# TYPE userdir_search_requests_total counter
userdir_search_requests_total{status="ok"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "userdir_search_requests_total"))
}

func TestClient_StatusAndDecodeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "bad-json" {
			_, _ = w.Write([]byte("{not json"))
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := directory.NewClient(srv.URL)

	_, err := client.Search(context.Background(), directory.Request{Query: "x", Limit: 1000})
	var se *directory.StatusError
	require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Contains(t, se.Body, "rate limited")

	_, err = client.Search(context.Background(), directory.Request{Query: "bad-json", Limit: 1000})
	assert.ErrorIs(t, err, directory.ErrDecode)
}

func TestClient_SendsRequestID(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"users":[],"total":0}`))
	}))
	defer srv.Close()

	_, err := directory.NewClient(srv.URL).Search(context.Background(), directory.Request{ID: "req-1", Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, "req-1", got.Load())
}

type countingSearcher struct {
	calls int
	resp  directory.Response
}

func (c *countingSearcher) Search(context.Context, directory.Request) (directory.Response, error) {
	c.calls++
	return c.resp, nil
}

func TestCachedSearcher_ServesRepeatsFromCache(t *testing.T) {
	mem := cache.NewMemory(time.Minute, time.Minute)
	defer mem.Close()

	next := &countingSearcher{resp: directory.Response{Total: 1, Users: []directory.User{{ID: 1}}}}
	s := directory.NewCachedSearcher(next, mem, time.Minute, nil, nil)

	req := directory.Request{Query: "john", Limit: 1000}
	for i := 0; i < 3; i++ {
		resp, err := s.Search(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
	}
	assert.Equal(t, 1, next.calls)

	_, err := s.Search(context.Background(), directory.Request{Query: "john", Limit: 1000, Skip: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "a different skip is a different key")
}

func TestCachedSearcher_NilCachePassesThrough(t *testing.T) {
	next := &countingSearcher{}
	assert.Same(t, directory.Searcher(next), directory.NewCachedSearcher(next, nil, 0, nil, nil))
}

// failingCache fails every operation.
type failingCache struct{ err error }

func (f failingCache) Get(context.Context, string, interface{}) (bool, error) { return false, f.err }
func (f failingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return f.err
}
func (f failingCache) Delete(context.Context, string) error { return f.err }
func (f failingCache) Close() error                         { return nil }

func TestCachedSearcher_CacheErrorsFallThrough(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := prometheus.NewRegistry()
	m, err := metrics.NewSearch(reg)
	require.NoError(t, err)

	next := &countingSearcher{resp: directory.Response{Total: 2, Users: []directory.User{{ID: 21}, {ID: 22}}}}
	s := directory.NewCachedSearcher(next, failingCache{err: errors.New("connection refused")}, time.Minute, zap.New(core), m)

	resp, err := s.Search(context.Background(), directory.Request{Limit: 1000, City: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, next.calls)

	assert.Equal(t, 1, logs.FilterMessage("cache get failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache set failed").Len())

	expected := `
# HELP userdir_cache_total Search response cache hits, misses and errors.
# TYPE userdir_cache_total counter
userdir_cache_total{result="error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "userdir_cache_total"))
}

func TestClient_WithHTTPClient(t *testing.T) {
	srv := httptest.NewServer(fixture.NewRouter(fixture.NewStore(fixture.DefaultUsers()), fixture.RouterConfig{}))
	defer srv.Close()

	var hits int32
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&hits, 1)
		return http.DefaultTransport.RoundTrip(r)
	})}

	client := directory.NewClient(srv.URL, directory.WithHTTPClient(hc))
	resp, err := client.Search(context.Background(), directory.Request{Query: "john", Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
