package directory

import "time"

// FilterByCity keeps users whose address city equals city.
// An empty city returns users unchanged.
func FilterByCity(users []User, city string) []User {
	if city == "" {
		return users
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.Address.City == city {
			out = append(out, u)
		}
	}
	return out
}

type oldestEntry struct {
	id   int
	born time.Time
	ok   bool
}

// MarkOldest returns a copy of users with IsOldest set on the oldest user of
// each city. The first user seen for a city holds the slot until a strictly
// earlier birth date replaces it; unparseable dates never win a comparison.
// Every row sharing the winner's id is flagged.
func MarkOldest(users []User) []User {
	winners := make(map[string]oldestEntry)
	for _, u := range users {
		born, ok := ParseBirthDate(u.BirthDate)
		cur, seen := winners[u.Address.City]
		if !seen || (ok && cur.ok && born.Before(cur.born)) {
			winners[u.Address.City] = oldestEntry{id: u.ID, born: born, ok: ok}
		}
	}

	out := make([]User, len(users))
	for i, u := range users {
		w := winners[u.Address.City]
		u.IsOldest = w.id == u.ID
		out[i] = u
	}
	return out
}

// clearOldest drops any IsOldest flag, copying only when one is set.
func clearOldest(users []User) []User {
	for i := range users {
		if !users[i].IsOldest {
			continue
		}
		out := make([]User, len(users))
		copy(out, users)
		for j := range out {
			out[j].IsOldest = false
		}
		return out
	}
	return users
}

// SliceWindow returns the one-based page of users. Out-of-range pages are empty.
func SliceWindow(users []User, page, pageSize int) []User {
	if page < 1 || pageSize <= 0 {
		return []User{}
	}
	start := (page - 1) * pageSize
	if start >= len(users) {
		return []User{}
	}
	end := start + pageSize
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}

// DistinctCities lists the cities of users in first-seen order.
func DistinctCities(users []User) []string {
	seen := make(map[string]struct{}, len(users))
	cities := make([]string, 0)
	for _, u := range users {
		if _, ok := seen[u.Address.City]; ok {
			continue
		}
		seen[u.Address.City] = struct{}{}
		cities = append(cities, u.Address.City)
	}
	return cities
}

// Derived is the output of the derivation pipeline.
type Derived struct {
	// Filtered is the city-filtered set, oldest-tagged when highlighting is on.
	Filtered []User
	// Source is what the table is given: Filtered when no city is selected,
	// the client-side page window of Filtered otherwise.
	Source []User
	// Rows is the single page the table renders out of Source.
	Rows []User
	// Total drives the pagination control: the server total without a city,
	// the filtered count with one.
	Total int
}

// Derive runs the pipeline over the current raw users.
//
// Pagination is dual-mode: without a city the server paginates (skip) and
// the table shows the first page of what came back; with a city the page is
// cut client-side from the filtered list. Both modes are kept as-is.
func Derive(s State, users []User, serverTotal, pageSize int) Derived {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := FilterByCity(users, s.City)
	if s.HighlightOldest {
		filtered = MarkOldest(filtered)
	} else {
		filtered = clearOldest(filtered)
	}

	d := Derived{Filtered: filtered}
	if s.City != "" {
		d.Source = SliceWindow(filtered, s.Page, pageSize)
		d.Total = len(filtered)
	} else {
		d.Source = filtered
		d.Total = serverTotal
	}
	d.Rows = SliceWindow(d.Source, 1, pageSize)
	return d
}

// PageCount returns the number of pages for total rows, at least one.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
