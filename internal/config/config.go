// Package config loads editor configuration from TOML files and
// watches them for live reload.
package config

import (
	"fmt"
	"time"

	"github.com/dshills/blockedit/internal/engine/block"
)

// Config holds the editor's tunable settings.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Logging LoggingConfig `toml:"logging"`
	Plugins PluginConfig  `toml:"plugins"`
}

// EditorConfig configures the interaction engine.
type EditorConfig struct {
	// DefaultBlockType is the content type of auto-inserted blocks.
	DefaultBlockType string `toml:"default_block_type"`

	// TouchPlatform enables the autocapitalization Shift+Enter
	// exception.
	TouchPlatform bool `toml:"touch_platform"`

	// LayoutRTL flips which horizontal arrow counts as forward.
	LayoutRTL bool `toml:"layout_rtl"`

	// ResyncDelayMS is the focus-resync delay after unhandled arrow
	// keys, in milliseconds.
	ResyncDelayMS int `toml:"resync_delay_ms"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// PluginConfig configures Lua plugins.
type PluginConfig struct {
	// Paths lists Lua scripts loaded at startup, in order.
	Paths []string `toml:"paths"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			DefaultBlockType: string(block.TypeParagraph),
			ResyncDelayMS:    20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ResyncDelay returns the focus-resync delay as a duration.
func (c *EditorConfig) ResyncDelay() time.Duration {
	return time.Duration(c.ResyncDelayMS) * time.Millisecond
}

// Validate checks the configuration for values the engine cannot run
// with.
func (c *Config) Validate() error {
	if c.Editor.DefaultBlockType == "" {
		return fmt.Errorf("editor.default_block_type must not be empty")
	}
	if c.Editor.ResyncDelayMS < 0 {
		return fmt.Errorf("editor.resync_delay_ms must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
