package directory

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page-size ceiling sent with every search.
	DefaultLimit = 1000
	// DefaultPageSize is the number of rows in one table page.
	DefaultPageSize = 10
	// DefaultSearchPath is the search endpoint path on the directory API.
	DefaultSearchPath = "/users/search"
)

// Request is one search request against the directory API.
type Request struct {
	Query string
	Limit int
	Skip  int
	City  string

	// ID correlates log lines for one request.
	ID string
	// Seq increases with every request the controller issues.
	Seq uint64
}

// Encode returns the query string in the order the API documents:
// q, limit, skip, then city when one is selected.
func (r Request) Encode() string {
	var sb strings.Builder
	sb.WriteString("q=")
	sb.WriteString(url.QueryEscape(r.Query))
	sb.WriteString("&limit=")
	sb.WriteString(strconv.Itoa(r.Limit))
	sb.WriteString("&skip=")
	sb.WriteString(strconv.Itoa(r.Skip))
	if r.City != "" {
		sb.WriteString("&city=")
		sb.WriteString(url.QueryEscape(r.City))
	}
	return sb.String()
}

// URL joins the base URL, the search path and the encoded query.
func (r Request) URL(baseURL, searchPath string) string {
	if searchPath == "" {
		searchPath = DefaultSearchPath
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(searchPath, "/") {
		searchPath = "/" + searchPath
	}
	return base + searchPath + "?" + r.Encode()
}

// CacheKey identifies the response a request would produce.
func (r Request) CacheKey() string {
	return "userdir:search:" + r.Encode()
}
