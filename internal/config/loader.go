package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ParseError describes a TOML syntax or structure error with its
// source.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// Loader reads configuration from a TOML file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the path the loader reads from.
func (l *Loader) Path() string { return l.path }

// Load reads the configured path. A missing file is not an error; the
// defaults are returned instead.
func (l *Loader) Load() (*Config, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path, layered over the
// defaults.
func (l *Loader) LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *Loader) LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *Loader) parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", source, err)
	}
	return cfg, nil
}
