package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"userdir/internal/directory"
)

type focusArea int

const (
	focusSearch focusArea = iota
	focusTable
)

// debouncedSearchMsg carries a search term that has settled.
type debouncedSearchMsg struct {
	term string
}

// searchResultMsg carries the outcome of one directory request.
type searchResultMsg struct {
	req  directory.Request
	resp directory.Response
	err  error
}

// PageConfig wires the directory page to its collaborators.
type PageConfig struct {
	Context    context.Context
	Searcher   directory.Searcher
	Controller *directory.Controller
	Debounce   time.Duration
	Logger     *zap.Logger
	Styles     Styles
}

// DirectoryPageModel is the searchable, paginated user table.
type DirectoryPageModel struct {
	width  int
	height int
	layout LayoutConfig

	ctx       context.Context
	ctrl      *directory.Controller
	searcher  directory.Searcher
	debouncer *SearchDebouncer
	logger    *zap.Logger

	search  textinput.Model
	spinner spinner.Model
	pager   paginator.Model

	focus      focusArea
	cityOpen   bool
	cityCursor int
	showHelp   bool
	help       string

	styles Styles
}

// NewDirectoryPageModel creates the page. The search box starts focused.
func NewDirectoryPageModel(cfg PageConfig) DirectoryPageModel {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Controller == nil {
		cfg.Controller = directory.NewController()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = DefaultSearchDelay
	}
	if cfg.Styles.Theme.Foreground == "" {
		cfg.Styles = DefaultStyles()
	}

	si := textinput.New()
	si.Prompt = "🔍 "
	si.Placeholder = "Search by name or email..."
	si.CharLimit = 80
	si.Width = 40
	si.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(cfg.Styles.Spinner),
	)

	pg := paginator.New()
	pg.Type = paginator.Dots
	pg.ActiveDot = cfg.Styles.Selected.Render("•")
	pg.InactiveDot = cfg.Styles.Muted.Render("•")

	return DirectoryPageModel{
		ctx:       cfg.Context,
		ctrl:      cfg.Controller,
		searcher:  cfg.Searcher,
		debouncer: NewSearchDebouncer(cfg.Debounce),
		logger:    cfg.Logger,
		search:    si,
		spinner:   sp,
		pager:     pg,
		focus:     focusSearch,
		styles:    cfg.Styles,
	}
}

// Init issues the initial fetch and starts listening for settled terms.
func (m DirectoryPageModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchIfNeeded(), m.waitForDebounced())
}

// Close stops the debouncer.
func (m DirectoryPageModel) Close() {
	m.debouncer.Close()
}

// waitForDebounced listens for the next settled search term
func (m DirectoryPageModel) waitForDebounced() tea.Cmd {
	d := m.debouncer
	return func() tea.Msg {
		select {
		case term := <-d.C():
			return debouncedSearchMsg{term: term}
		case <-d.Done():
			return nil
		}
	}
}

// fetchIfNeeded returns a fetch command when the controller has a pending
// request. Every request runs to completion and is applied on arrival.
func (m DirectoryPageModel) fetchIfNeeded() tea.Cmd {
	req, ok := m.ctrl.PendingFetch()
	if !ok {
		return nil
	}
	m.logger.Debug("issuing search",
		zap.String("request_id", req.ID),
		zap.String("query", req.Encode()),
	)
	return tea.Batch(m.fetch(req), m.spinner.Tick)
}

func (m DirectoryPageModel) fetch(req directory.Request) tea.Cmd {
	ctx, s := m.ctx, m.searcher
	return func() tea.Msg {
		if s == nil {
			return searchResultMsg{req: req, err: fmt.Errorf("no searcher configured")}
		}
		resp, err := s.Search(ctx, req)
		return searchResultMsg{req: req, resp: resp, err: err}
	}
}

// Update handles messages.
func (m DirectoryPageModel) Update(msg tea.Msg) (DirectoryPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case debouncedSearchMsg:
		m.ctrl.CommitSearch(msg.term)
		return m, tea.Batch(m.fetchIfNeeded(), m.waitForDebounced())

	case searchResultMsg:
		if msg.err != nil {
			m.ctrl.ApplyError(msg.req, msg.err)
		} else {
			m.ctrl.ApplyResponse(msg.req, msg.resp)
		}
		m.clampCityCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m DirectoryPageModel) handleKey(msg tea.KeyMsg) (DirectoryPageModel, tea.Cmd) {
	key := msg.String()

	if m.showHelp {
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		m.showHelp = false
		return m, nil
	}
	if m.cityOpen {
		return m.handleCityKey(key)
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.toggleFocus()
	case "pgdown":
		return m.nextPage()
	case "pgup":
		return m.prevPage()
	}

	if m.focus == focusSearch {
		if key == "esc" {
			return m.toggleFocus()
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if after := m.search.Value(); after != before {
			m.ctrl.SetSearch(after)
			m.debouncer.Submit(after)
			// the page reset alone may trigger a fetch with the previous term
			cmd = tea.Batch(cmd, m.fetchIfNeeded())
		}
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		return m.toggleFocus()
	case "left", "h":
		return m.prevPage()
	case "right", "l":
		return m.nextPage()
	case "c":
		m.cityOpen = true
		m.cityCursor = m.cityIndex()
		return m, nil
	case "o":
		m.ctrl.SetHighlightOldest(!m.ctrl.State().HighlightOldest)
		return m, nil
	case "?":
		m.showHelp = true
		m.help = RenderHelp(m.layout.ContentWidth(), m.styles.Theme.IsDark)
		return m, nil
	}
	return m, nil
}

func (m DirectoryPageModel) toggleFocus() (DirectoryPageModel, tea.Cmd) {
	if m.focus == focusSearch {
		m.focus = focusTable
		m.search.Blur()
		return m, nil
	}
	m.focus = focusSearch
	return m, m.search.Focus()
}

func (m DirectoryPageModel) nextPage() (DirectoryPageModel, tea.Cmd) {
	v := m.ctrl.View()
	if v.Page >= v.PageCount {
		return m, nil
	}
	m.ctrl.SetPage(v.Page + 1)
	return m, m.fetchIfNeeded()
}

func (m DirectoryPageModel) prevPage() (DirectoryPageModel, tea.Cmd) {
	page := m.ctrl.State().Page
	if page <= 1 {
		return m, nil
	}
	m.ctrl.SetPage(page - 1)
	return m, m.fetchIfNeeded()
}

// cityOptions is the picker list; index 0 clears the selection.
func (m DirectoryPageModel) cityOptions() []string {
	return append([]string{"All cities"}, m.ctrl.Cities()...)
}

func (m DirectoryPageModel) cityIndex() int {
	city := m.ctrl.State().City
	if city == "" {
		return 0
	}
	for i, c := range m.ctrl.Cities() {
		if c == city {
			return i + 1
		}
	}
	return 0
}

func (m *DirectoryPageModel) clampCityCursor() {
	if n := len(m.cityOptions()); m.cityCursor >= n {
		m.cityCursor = n - 1
	}
}

func (m DirectoryPageModel) handleCityKey(key string) (DirectoryPageModel, tea.Cmd) {
	opts := m.cityOptions()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "c":
		m.cityOpen = false
	case "up", "k":
		if m.cityCursor > 0 {
			m.cityCursor--
		}
	case "down", "j":
		if m.cityCursor < len(opts)-1 {
			m.cityCursor++
		}
	case "x":
		m.cityOpen = false
		m.cityCursor = 0
		m.ctrl.SelectCity("")
		return m, m.fetchIfNeeded()
	case "enter":
		m.cityOpen = false
		city := ""
		if m.cityCursor > 0 {
			city = opts[m.cityCursor]
		}
		m.ctrl.SelectCity(city)
		return m, m.fetchIfNeeded()
	}
	return m, nil
}

// View renders the page.
func (m DirectoryPageModel) View() string {
	if m.showHelp {
		return m.help
	}

	v := m.ctrl.View()
	var sb strings.Builder

	header := m.styles.Header.Render(" User Directory ")
	if v.Loading {
		header += " " + m.spinner.View() + m.styles.Muted.Render(" loading")
	}
	sb.WriteString(header + "\n\n")

	box := m.styles.SearchBox
	if m.focus == focusSearch {
		box = m.styles.SearchBoxFocus
	}
	sb.WriteString(box.Render(m.search.View()))
	sb.WriteString("\n")
	sb.WriteString(m.renderFilterBar(v))
	sb.WriteString("\n\n")

	if m.cityOpen {
		sb.WriteString(m.renderCityPicker())
	} else {
		sb.WriteString(m.renderTable(v))
	}
	sb.WriteString("\n")
	sb.WriteString(m.renderPager(v))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Footer.Render(m.hint()))

	return sb.String()
}

func (m DirectoryPageModel) renderFilterBar(v directory.View) string {
	city := "all"
	if v.State.City != "" {
		city = v.State.City
	}
	oldest := "off"
	if v.State.HighlightOldest {
		oldest = "on"
	}
	return m.styles.Muted.Render("City: ") + m.styles.Bold.Render(city) +
		m.styles.Muted.Render("   Oldest per city: ") + m.styles.Bold.Render(oldest)
}

func (m DirectoryPageModel) renderTable(v directory.View) string {
	if len(v.Rows) == 0 {
		if v.Loading {
			return m.styles.Muted.Render("Loading users...")
		}
		return m.styles.Muted.Render("No users found.")
	}
	t := NewUserTable("", v.Rows)
	t.Width = m.layout.TableWidth()
	return strings.TrimRight(t.View(m.styles), "\n")
}

func (m DirectoryPageModel) renderCityPicker() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Select a city"))
	sb.WriteString("\n")
	for i, c := range m.cityOptions() {
		line := "  " + c
		style := m.styles.Body
		if i == m.cityCursor {
			line = "> " + c
			style = m.styles.Selected
		}
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m DirectoryPageModel) renderPager(v directory.View) string {
	pg := m.pager
	pg.PerPage = v.PageSize
	pg.TotalPages = v.PageCount
	pg.Page = v.Page - 1
	if pg.Page >= pg.TotalPages {
		pg.Page = pg.TotalPages - 1
	}
	if pg.TotalPages > 20 || (m.layout.IsCompact && pg.TotalPages > 10) {
		pg.Type = paginator.Arabic
	}
	summary := fmt.Sprintf("  page %d of %d · %d users", v.Page, v.PageCount, v.Total)
	return pg.View() + m.styles.Muted.Render(summary)
}

func (m DirectoryPageModel) hint() string {
	if m.cityOpen {
		return "↑/↓ move • enter select • x clear • esc close"
	}
	if m.focus == focusSearch {
		return "type to search • tab table • pgup/pgdown page • ctrl+c quit"
	}
	if m.layout.IsCompact {
		return "←/→ page • c city • o oldest • ? help • q quit"
	}
	return "←/→ page • / search • c city • o oldest per city • ? help • q quit"
}

// SetSize updates the size.
func (m *DirectoryPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.layout = NewLayoutConfig(w, h)
	m.search.Width = m.layout.ContentWidth() - 8
	if m.showHelp {
		m.help = RenderHelp(m.layout.ContentWidth(), m.styles.Theme.IsDark)
	}
}

// Controller exposes the page's controller.
func (m DirectoryPageModel) Controller() *directory.Controller {
	return m.ctrl
}
