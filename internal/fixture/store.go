// Package fixture serves a local stand-in for the directory API, backed by an
// in-memory user list. It exists for offline development and for tests.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"userdir/internal/directory"
)

// Store is an immutable in-memory user list.
type Store struct {
	users []directory.User
}

// NewStore copies users into a Store.
func NewStore(users []directory.User) *Store {
	cp := make([]directory.User, len(users))
	copy(cp, users)
	return &Store{users: cp}
}

// Load reads users from a JSON file holding either a bare array of users or
// an API-shaped object with a "users" field.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var users []directory.User
		if err := json.Unmarshal(data, &users); err != nil {
			return nil, fmt.Errorf("parse fixture %s: %w", path, err)
		}
		return NewStore(users), nil
	}

	var resp directory.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return NewStore(resp.Users), nil
}

// Len returns the number of users in the store.
func (s *Store) Len() int { return len(s.users) }

// Search matches q case-insensitively against first, last and email, keeps
// users in city when it is non-empty, then applies skip and limit.
// A limit of zero returns every remaining match. Total counts all matches.
func (s *Store) Search(q, city string, limit, skip int) directory.Response {
	q = strings.ToLower(strings.TrimSpace(q))

	matched := make([]directory.User, 0, len(s.users))
	for _, u := range s.users {
		if city != "" && u.Address.City != city {
			continue
		}
		if q != "" && !matches(u, q) {
			continue
		}
		matched = append(matched, u)
	}

	if skip < 0 {
		skip = 0
	}
	start := skip
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	page := make([]directory.User, end-start)
	copy(page, matched[start:end])
	return directory.Response{
		Limit: len(page),
		Skip:  skip,
		Total: len(matched),
		Users: page,
	}
}

func matches(u directory.User, q string) bool {
	for _, field := range []string{u.FirstName, u.LastName, u.Email} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
