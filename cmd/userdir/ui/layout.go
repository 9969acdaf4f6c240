package ui

// Layout constants for the directory page
const (
	ViewportHorizontalPadding = 4

	MinimumTerminalWidth = 60
	CompactModeWidth     = 100
	MaxTableWidth        = 110
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable content width
func (l LayoutConfig) ContentWidth() int {
	w := l.TerminalWidth - ViewportHorizontalPadding
	if w < MinimumTerminalWidth-ViewportHorizontalPadding {
		return MinimumTerminalWidth - ViewportHorizontalPadding
	}
	return w
}

// TableWidth returns the table width; zero lets the table size itself.
func (l LayoutConfig) TableWidth() int {
	if l.TerminalWidth == 0 {
		return 0
	}
	w := l.ContentWidth()
	if w > MaxTableWidth {
		return MaxTableWidth
	}
	return w
}
