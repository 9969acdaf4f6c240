package config

// Logging categories.
const (
	CategoryBoot    = "boot"
	CategoryFetch   = "fetch"
	CategoryCache   = "cache"
	CategoryUI      = "ui"
	CategoryFixture = "fixture"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, console
	File       string          `yaml:"file"`       // under .userdir/logs
	DebugMode  bool            `yaml:"debug_mode"` // false = no file logging from the TUI
	Categories map[string]bool `yaml:"categories"`
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Always false unless debug_mode is on; unlisted categories default to on.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
