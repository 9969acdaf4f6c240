// Package directory implements the user directory view: the search request
// builder, the fetch controller and the derivation pipeline that turns a raw
// result page into the rows a table renders.
package directory

import (
	"strings"
	"time"
)

// Address is the subset of a user's postal address the directory reads.
type Address struct {
	Address    string `json:"address,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	StateCode  string `json:"stateCode,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// User is a single directory record.
type User struct {
	ID        int     `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email,omitempty"`
	Age       int     `json:"age,omitempty"`
	BirthDate string  `json:"birthDate"`
	Address   Address `json:"address"`

	// IsOldest is derived by MarkOldest and never sent by the API.
	IsOldest bool `json:"isOldest,omitempty"`
}

// FullName joins first and last name the way the Name column shows it.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Response is the JSON body returned by the search endpoint.
type Response struct {
	Limit int    `json:"limit"`
	Skip  int    `json:"skip"`
	Total int    `json:"total"`
	Users []User `json:"users"`
}

// birthDateLayouts are tried in order. The API serves unpadded dates
// ("1996-5-30"); the numeric layout accepts padded ones too.
var birthDateLayouts = []string{
	"2006-1-2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/1/2",
}

// ParseBirthDate parses a birth date string. ok is false when no layout matches.
func ParseBirthDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range birthDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// FormatBirthDate renders a birth date for display. Unparseable values are
// shown as "Invalid Date".
func FormatBirthDate(s string) string {
	t, ok := ParseBirthDate(s)
	if !ok {
		return "Invalid Date"
	}
	return t.Format("Jan 2, 2006")
}
