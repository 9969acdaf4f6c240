package directory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPageSize sets the table page size.
func WithPageSize(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLimit sets the limit sent with every search.
func WithLimit(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithControllerLogger sets the logger fetch failures are reported to.
func WithControllerLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHighlightOldest sets the initial highlight toggle.
func WithHighlightOldest(on bool) ControllerOption {
	return func(c *Controller) {
		c.state.HighlightOldest = on
	}
}

// Controller owns the directory view state and the last fetched result page.
//
// It is not safe for concurrent use: one goroutine (the UI update loop)
// calls the setters, issues requests via PendingFetch and feeds results back
// through ApplyResponse or ApplyError. Results are applied in arrival order,
// so an older request finishing last overwrites a newer one.
type Controller struct {
	state    State
	pageSize int
	limit    int

	users   []User
	total   int
	cities  []string
	loading bool

	issued      *fetchKey
	seq         uint64
	lastApplied uint64

	logger *zap.Logger
}

// NewController returns a controller on page 1 with no filters.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		state:    State{Page: 1},
		pageSize: DefaultPageSize,
		limit:    DefaultLimit,
		users:    []User{},
		cities:   []string{},
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns a copy of the current filter state.
func (c *Controller) State() State { return c.state }

// PageSize returns the table page size.
func (c *Controller) PageSize() int { return c.pageSize }

// Loading reports whether a request is in flight.
func (c *Controller) Loading() bool { return c.loading }

// Cities returns the city options for the selector.
func (c *Controller) Cities() []string { return c.cities }

// SetSearch updates the immediate search text and returns to the first page.
// The fetch only follows once CommitSearch delivers the debounced value.
func (c *Controller) SetSearch(text string) {
	c.state.Search = text
	c.state.Skip = 0
	c.state.Page = 1
}

// CommitSearch stores the debounced copy of the search text.
func (c *Controller) CommitSearch(text string) {
	c.state.Debounced = text
}

// SetPage moves to a one-based page and sets the matching server offset.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.state.Skip = SkipForPage(page, c.pageSize)
	c.state.Page = page
}

// SelectCity filters by city; an empty city clears the filter.
// Either way pagination returns to the first page.
func (c *Controller) SelectCity(city string) {
	c.state.City = city
	c.state.Skip = 0
	c.state.Page = 1
}

// SetHighlightOldest toggles oldest-per-city highlighting.
func (c *Controller) SetHighlightOldest(on bool) {
	c.state.HighlightOldest = on
}

// PendingFetch returns the request to issue when skip, the debounced search,
// the city or the page changed since the last issued request. It marks the
// request as issued and sets the loading flag.
func (c *Controller) PendingFetch() (Request, bool) {
	key := c.state.key()
	if c.issued != nil && *c.issued == key {
		return Request{}, false
	}
	c.issued = &key
	c.seq++
	c.loading = true

	return Request{
		Query: c.state.Debounced,
		Limit: c.limit,
		Skip:  c.state.Skip,
		City:  c.state.City,
		ID:    uuid.NewString(),
		Seq:   c.seq,
	}, true
}

// ApplyResponse replaces the stored users and total with resp. The city list
// is only recomputed when req carried no city filter, so the selector keeps
// offering every city while one is selected.
func (c *Controller) ApplyResponse(req Request, resp Response) {
	if req.Seq < c.lastApplied {
		c.logger.Warn("applying out-of-order search response",
			zap.String("request_id", req.ID),
			zap.Uint64("seq", req.Seq),
			zap.Uint64("last_applied", c.lastApplied),
		)
	}
	if req.Seq > c.lastApplied {
		c.lastApplied = req.Seq
	}

	users := resp.Users
	if users == nil {
		users = []User{}
	}
	c.users = users
	c.total = resp.Total
	if req.City == "" {
		c.cities = DistinctCities(users)
	}
	c.loading = false
}

// ApplyError logs a failed request. Users, total and cities keep their
// previous values; there is no retry.
func (c *Controller) ApplyError(req Request, err error) {
	c.logger.Error("fetch users failed",
		zap.String("request_id", req.ID),
		zap.String("query", req.Encode()),
		zap.Error(err),
	)
	c.loading = false
}

// Fetch issues the pending request, if any, and applies its outcome.
// The error is returned for callers that want to report it; the controller
// state is the same as after ApplyError.
func (c *Controller) Fetch(ctx context.Context, s Searcher) error {
	req, ok := c.PendingFetch()
	if !ok {
		return nil
	}
	resp, err := s.Search(ctx, req)
	if err != nil {
		c.ApplyError(req, err)
		return err
	}
	c.ApplyResponse(req, resp)
	return nil
}

// View is everything a renderer needs for one frame.
type View struct {
	State     State
	Rows      []User
	Source    []User
	Total     int
	Page      int
	PageCount int
	PageSize  int
	Cities    []string
	Loading   bool
}

// View runs the derivation pipeline over the stored result page.
func (c *Controller) View() View {
	d := Derive(c.state, c.users, c.total, c.pageSize)
	return View{
		State:     c.state,
		Rows:      d.Rows,
		Source:    d.Source,
		Total:     d.Total,
		Page:      c.state.Page,
		PageCount: PageCount(d.Total, c.pageSize),
		PageSize:  c.pageSize,
		Cities:    c.cities,
		Loading:   c.loading,
	}
}
