package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"userdir/internal/directory"
)

// SimpleTable renders static rows with optional highlighted rows.
type SimpleTable struct {
	Title     string
	Headers   []string
	Rows      [][]string
	Highlight map[int]bool // row index -> highlighted
	Width     int          // 0 = natural width
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:     title,
		Headers:   headers,
		Rows:      make([][]string, 0),
		Highlight: make(map[int]bool),
	}
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// AddHighlightedRow adds a row rendered with the highlight style.
func (t *SimpleTable) AddHighlightedRow(row ...string) {
	t.Highlight[len(t.Rows)] = true
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles. An empty table renders
// as an empty string.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	cell := styles.Body.Padding(0, 1)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorder).
		BorderRow(false).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableHeader
			case t.Highlight[row]:
				return styles.Highlight
			default:
				return cell
			}
		})
	if t.Width > 0 {
		tbl = tbl.Width(t.Width)
	}

	sb.WriteString(tbl.Render())
	sb.WriteString("\n")
	return sb.String()
}

// OldestMarker flags the oldest user of a city.
const OldestMarker = "★"

// UserTableHeaders are the directory table columns.
var UserTableHeaders = []string{" ", "Name", "City", "Birthday"}

// NewUserTable builds the directory table for one page of users. Rows
// flagged as the oldest in their city are highlighted and starred.
func NewUserTable(title string, users []directory.User) *SimpleTable {
	t := NewSimpleTable(title, UserTableHeaders)
	for _, u := range users {
		marker := " "
		if u.IsOldest {
			marker = OldestMarker
		}
		row := []string{marker, u.FullName(), u.Address.City, directory.FormatBirthDate(u.BirthDate)}
		if u.IsOldest {
			t.AddHighlightedRow(row...)
		} else {
			t.AddRow(row...)
		}
	}
	return t
}
