package directory

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func user(id int, city, born string) User {
	return User{
		ID:        id,
		FirstName: fmt.Sprintf("First%d", id),
		LastName:  fmt.Sprintf("Last%d", id),
		BirthDate: born,
		Address:   Address{City: city},
	}
}

func ids(users []User) []int {
	out := make([]int, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func flagged(users []User) []int {
	out := []int{}
	for _, u := range users {
		if u.IsOldest {
			out = append(out, u.ID)
		}
	}
	return out
}

func TestFilterByCity(t *testing.T) {
	users := []User{user(1, "Paris", ""), user(2, "Tokyo", ""), user(3, "Paris", "")}

	if diff := cmp.Diff([]int{1, 3}, ids(FilterByCity(users, "Paris"))); diff != "" {
		t.Errorf("FilterByCity(Paris) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ids(FilterByCity(users, ""))); diff != "" {
		t.Errorf("FilterByCity(\"\") mismatch (-want +got):\n%s", diff)
	}
	if got := FilterByCity(users, "Lima"); len(got) != 0 {
		t.Errorf("expected no rows for unknown city, got %v", ids(got))
	}
}

func TestMarkOldest_ParisScenario(t *testing.T) {
	users := []User{user(1, "Paris", "1990-01-01"), user(2, "Paris", "1985-05-05")}

	got := MarkOldest(users)
	if diff := cmp.Diff([]int{2}, flagged(got)); diff != "" {
		t.Errorf("flagged rows mismatch (-want +got):\n%s", diff)
	}
	if users[0].IsOldest || users[1].IsOldest {
		t.Error("MarkOldest must not modify its input")
	}
}

func TestMarkOldest_OnePerCityWithMinimumBirthDate(t *testing.T) {
	users := []User{
		user(1, "Paris", "1990-1-1"),
		user(2, "Tokyo", "1970-3-3"),
		user(3, "Paris", "1985-5-5"),
		user(4, "Tokyo", "1965-12-31"),
		user(5, "Tokyo", "1999-2-2"),
		user(6, "Lima", "2000-6-6"),
	}

	got := MarkOldest(users)

	perCity := map[string][]User{}
	for _, u := range got {
		perCity[u.Address.City] = append(perCity[u.Address.City], u)
	}
	for city, rows := range perCity {
		var winners []User
		for _, u := range rows {
			if u.IsOldest {
				winners = append(winners, u)
			}
		}
		if len(winners) != 1 {
			t.Fatalf("city %s: expected exactly one flagged row, got %d", city, len(winners))
		}
		wb, _ := ParseBirthDate(winners[0].BirthDate)
		for _, u := range rows {
			b, _ := ParseBirthDate(u.BirthDate)
			if b.Before(wb) {
				t.Errorf("city %s: row %d born %s is older than flagged row %d", city, u.ID, u.BirthDate, winners[0].ID)
			}
		}
	}
	if diff := cmp.Diff([]int{3, 4, 6}, flagged(got)); diff != "" {
		t.Errorf("flagged rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkOldest_TiesAndInvalidDates(t *testing.T) {
	tests := []struct {
		name  string
		users []User
		want  []int
	}{
		{
			name:  "tie keeps first row",
			users: []User{user(1, "Rome", "1980-1-1"), user(2, "Rome", "1980-01-01")},
			want:  []int{1},
		},
		{
			name:  "invalid first row is never replaced",
			users: []User{user(1, "Rome", "not a date"), user(2, "Rome", "1950-1-1")},
			want:  []int{1},
		},
		{
			name:  "invalid later row never wins",
			users: []User{user(1, "Rome", "1980-1-1"), user(2, "Rome", "")},
			want:  []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, flagged(MarkOldest(tt.users))); diff != "" {
				t.Errorf("flagged rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSliceWindow(t *testing.T) {
	var users []User
	for i := 1; i <= 23; i++ {
		users = append(users, user(i, "Tokyo", "1990-1-1"))
	}

	tests := []struct {
		page int
		want []int
	}{
		{1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{3, []int{21, 22, 23}},
		{4, []int{}},
		{0, []int{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(SliceWindow(users, tt.page, 10))); diff != "" {
				t.Errorf("SliceWindow mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDistinctCities_FirstSeenOrder(t *testing.T) {
	users := []User{user(1, "Tokyo", ""), user(2, "Paris", ""), user(3, "Tokyo", ""), user(4, "Lima", "")}
	if diff := cmp.Diff([]string{"Tokyo", "Paris", "Lima"}, DistinctCities(users)); diff != "" {
		t.Errorf("DistinctCities mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_NoCityUsesServerTotalAndFirstTablePage(t *testing.T) {
	var users []User
	for i := 1; i <= 30; i++ {
		users = append(users, user(i, "Houston", "1990-1-1"))
	}

	d := Derive(State{Page: 2, Skip: 10}, users, 208, 10)
	if d.Total != 208 {
		t.Errorf("expected server total 208, got %d", d.Total)
	}
	if len(d.Source) != 30 {
		t.Errorf("expected the unsliced filtered list as source, got %d rows", len(d.Source))
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(d.Rows)); diff != "" {
		t.Errorf("rendered rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_CityUsesFilteredCountAndClientWindow(t *testing.T) {
	var users []User
	for i := 1; i <= 23; i++ {
		users = append(users, user(i, "Tokyo", "1990-1-1"))
	}
	for i := 100; i < 110; i++ {
		users = append(users, user(i, "Osaka", "1990-1-1"))
	}

	d := Derive(State{Page: 1, City: "Tokyo"}, users, 33, 10)
	if d.Total != 23 {
		t.Errorf("expected filtered total 23, got %d", d.Total)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(d.Rows)); diff != "" {
		t.Errorf("rendered rows mismatch (-want +got):\n%s", diff)
	}
	for _, u := range d.Rows {
		if u.Address.City != "Tokyo" {
			t.Errorf("row %d has city %q, want Tokyo", u.ID, u.Address.City)
		}
	}

	d = Derive(State{Page: 3, City: "Tokyo"}, users, 33, 10)
	if diff := cmp.Diff([]int{21, 22, 23}, ids(d.Rows)); diff != "" {
		t.Errorf("page 3 rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_HighlightOffNeverFlags(t *testing.T) {
	raw := []User{user(1, "Paris", "1990-1-1"), user(2, "Paris", "1985-5-5")}

	d := Derive(State{Page: 1, HighlightOldest: true}, raw, 2, 10)
	if diff := cmp.Diff([]int{2}, flagged(d.Rows)); diff != "" {
		t.Errorf("flagged rows mismatch (-want +got):\n%s", diff)
	}

	d = Derive(State{Page: 1}, raw, 2, 10)
	if got := flagged(d.Rows); len(got) != 0 {
		t.Errorf("expected no flagged rows, got %v", got)
	}

	// rows flagged by an earlier pass are cleared too
	d = Derive(State{Page: 1}, MarkOldest(raw), 2, 10)
	if got := flagged(d.Rows); len(got) != 0 {
		t.Errorf("expected stale flags to be cleared, got %v", got)
	}
}

func TestDerive_RowsNeverExceedPageSize(t *testing.T) {
	cities := []string{"", "Tokyo", "Paris"}
	for n := 0; n <= 45; n += 7 {
		var users []User
		for i := 0; i < n; i++ {
			users = append(users, user(i, cities[i%3], "1990-1-1"))
		}
		for _, city := range cities {
			for page := 1; page <= 5; page++ {
				for _, hl := range []bool{false, true} {
					d := Derive(State{Page: page, City: city, HighlightOldest: hl}, users, n, 10)
					if len(d.Rows) > 10 {
						t.Fatalf("n=%d city=%q page=%d: %d rows rendered", n, city, page, len(d.Rows))
					}
				}
			}
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct{ total, want int }{{0, 1}, {5, 1}, {10, 1}, {11, 2}, {23, 3}, {208, 21}}
	for _, tt := range tests {
		if got := PageCount(tt.total, 10); got != tt.want {
			t.Errorf("PageCount(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestParseBirthDate(t *testing.T) {
	for _, s := range []string{"1996-5-30", "1996-05-30", "1996-05-30T00:00:00Z", "1996/5/30"} {
		got, ok := ParseBirthDate(s)
		if !ok {
			t.Errorf("ParseBirthDate(%q) failed", s)
			continue
		}
		if got.Year() != 1996 || got.Month() != 5 || got.Day() != 30 {
			t.Errorf("ParseBirthDate(%q) = %v", s, got)
		}
	}
	if _, ok := ParseBirthDate("yesterday"); ok {
		t.Error("expected parse failure for free text")
	}
	if got := FormatBirthDate("1985-5-5"); got != "May 5, 1985" {
		t.Errorf("FormatBirthDate = %q", got)
	}
	if got := FormatBirthDate(""); got != "Invalid Date" {
		t.Errorf("FormatBirthDate(\"\") = %q", got)
	}
}
