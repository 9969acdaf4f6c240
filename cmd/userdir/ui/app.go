package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// App is the root tea.Model hosting the directory page.
type App struct {
	page DirectoryPageModel
}

// NewApp wraps a directory page.
func NewApp(page DirectoryPageModel) App {
	return App{page: page}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.page.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.page, cmd = a.page.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	return a.page.View()
}

// Close releases the page's background resources.
func (a App) Close() {
	a.page.Close()
}
