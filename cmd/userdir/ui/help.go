package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# User Directory

Search runs one second after you stop typing. Results come from the
directory API, one page at a time.

## Keys

| Key | Action |
|-----|--------|
| type | edit the search box |
| tab | switch focus between search box and table |
| / | focus the search box |
| ← h / → l | previous / next page |
| pgup / pgdown | previous / next page from anywhere |
| c | open the city picker |
| o | toggle oldest-per-city highlighting |
| ? | toggle this help |
| q, ctrl+c | quit |

## City picker

| Key | Action |
|-----|--------|
| ↑ k / ↓ j | move |
| enter | select city |
| x | clear city |
| esc | close |

With a city selected the table pages through the matching users locally
and the city list stays as it was before the selection.
`

var helpCache = NewRenderCache(16)

// RenderHelp renders the help overlay as markdown, once per width and theme.
// Rendering falls back to the raw text when glamour fails.
func RenderHelp(width int, dark bool) string {
	if width <= 0 {
		width = 80
	}
	return helpCache.GetOrCompute(ComputeKey("help", width, dark), func() string {
		return renderHelp(width, dark)
	})
}

func renderHelp(width int, dark bool) string {
	style := "light"
	if dark {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
