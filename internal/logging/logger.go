// Package logging provides config-driven categorized logging for userdir.
// In interactive mode the terminal belongs to the TUI, so logs go to
// .userdir/logs/ and only when debug_mode is enabled; otherwise every
// category logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"userdir/internal/config"
)

// Logger owns the root zap logger and hands out category children.
type Logger struct {
	cfg     config.LoggingConfig
	root    *zap.Logger
	path    string
	closeFn func()

	mu     sync.Mutex
	byName map[string]*zap.Logger
}

// Nop returns a Logger whose categories all discard.
func Nop() *Logger {
	return &Logger{root: zap.NewNop(), byName: map[string]*zap.Logger{}}
}

// New builds the file logger under <workspace>/.userdir/logs. With
// debug_mode off it returns Nop without touching the filesystem.
func New(cfg config.LoggingConfig, workspace string) (*Logger, error) {
	if !cfg.DebugMode {
		l := Nop()
		l.cfg = cfg
		return l, nil
	}
	if workspace == "" {
		return nil, fmt.Errorf("workspace path required")
	}

	logsDir := filepath.Join(workspace, ".userdir", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	name := cfg.File
	if name == "" {
		name = "userdir.log"
	}
	path := filepath.Join(logsDir, filepath.Base(name))

	sink, closeFn, err := zap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	core := zapcore.NewCore(encoder(cfg.Format), sink, ParseLevel(cfg.Level))
	l := &Logger{
		cfg:     cfg,
		root:    zap.New(core, zap.AddCaller()),
		path:    path,
		closeFn: closeFn,
		byName:  map[string]*zap.Logger{},
	}

	boot := l.Get(config.CategoryBoot)
	boot.Info("logging initialized",
		zap.String("workspace", workspace),
		zap.String("file", path),
		zap.String("level", cfg.Level),
	)
	for cat, enabled := range cfg.Categories {
		boot.Debug("category toggle", zap.String("category", cat), zap.Bool("enabled", enabled))
	}

	return l, nil
}

func encoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(format, "console") || strings.EqualFold(format, "text") {
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

// ParseLevel maps a config level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the logger for a category, or a no-op logger when the
// category is disabled.
func (l *Logger) Get(category string) *zap.Logger {
	if l == nil || !l.cfg.IsCategoryEnabled(category) {
		return zap.NewNop()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if z, ok := l.byName[category]; ok {
		return z
	}
	z := l.root.Named(category)
	l.byName[category] = z
	return z
}

// Path is the log file path, empty for a no-op logger.
func (l *Logger) Path() string {
	return l.path
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.closeFn == nil {
		return nil
	}
	err := l.root.Sync()
	l.closeFn()
	l.closeFn = nil
	return err
}

// NewConsole builds the stderr logger used by headless commands.
func NewConsole(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
