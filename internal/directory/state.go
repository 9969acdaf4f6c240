package directory

// State is the operator-controlled filter state of the directory view.
// Use the Controller setters to change it; they keep Skip and Page in step.
type State struct {
	Search          string
	Debounced       string
	Skip            int
	Page            int
	City            string // empty means no city selected
	HighlightOldest bool
}

// fetchKey is the set of state fields whose change triggers a fetch.
// Page is implied by Skip but is tracked on its own, so a page reset with an
// unchanged skip still refetches.
type fetchKey struct {
	skip      int
	debounced string
	city      string
	page      int
}

func (s State) key() fetchKey {
	return fetchKey{
		skip:      s.Skip,
		debounced: s.Debounced,
		city:      s.City,
		page:      s.Page,
	}
}

// SkipForPage returns the row offset of a one-based page.
func SkipForPage(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return pageSize * (page - 1)
}
