package fixture

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"userdir/internal/metrics"
)

// defaultLimit matches the page size the real API uses when none is sent.
const defaultLimit = 30

// RouterConfig wires optional collaborators into the fixture router.
type RouterConfig struct {
	Logger   *zap.Logger
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer // serves /metrics when set
}

type handler struct {
	store  *Store
	logger *zap.Logger
}

// NewRouter returns the fixture API:
//
//	GET /users/search?q=&limit=&skip=&city=
//	GET /users?limit=&skip=&city=
//	GET /healthz
//	GET /metrics (when cfg.Gatherer is set)
func NewRouter(store *Store, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}

	r.Get("/users/search", h.search)
	r.Get("/users", h.list)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Gatherer))
	}
	return r
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, r.URL.Query().Get("q"))
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "")
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request, q string) {
	params := r.URL.Query()

	limit, err := intParam(params.Get("limit"), defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	skip, err := intParam(params.Get("skip"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skip")
		return
	}

	resp := h.store.Search(q, params.Get("city"), limit, skip)
	h.logger.Debug("fixture search",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("q", q),
		zap.String("city", params.Get("city")),
		zap.Int("limit", limit),
		zap.Int("skip", skip),
		zap.Int("total", resp.Total),
	)
	writeJSON(w, http.StatusOK, resp)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
