package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "SNAPKIT_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	optional  bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path. A missing file is an
// error.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
		l.optional = false
	}
}

// WithOptionalConfigFile sets a configuration file that is skipped when it
// does not exist.
func WithOptionalConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
		l.optional = true
	}
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads defaults, the file, then the environment, and returns the
// validated result.
func (l *Loader) Load() (Config, error) {
	if err := l.k.Load(mapProvider(defaultMap()), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if err := l.loadFile(); err != nil {
		return Config{}, err
	}

	if err := l.loadEnv(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (l *Loader) loadFile() error {
	if l.filePath == "" {
		return nil
	}
	if l.optional {
		if _, err := os.Stat(l.filePath); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}

	if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
		return fmt.Errorf("load config file %s: %w", l.filePath, err)
	}
	return nil
}

func (l *Loader) loadEnv() error {
	// SNAPKIT_SERIALIZER__INDENT -> serializer.indent
	transform := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	// The conventional CI flag has no prefix. Returning "" skips every other
	// variable that merely starts with "CI".
	ci := func(s string) string {
		if s == "CI" {
			return "ci"
		}
		return ""
	}
	if err := l.k.Load(env.Provider("CI", ".", ci), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// Load is shorthand for NewLoader with an optional config file.
// An empty path means DefaultFile.
func Load(path string) (Config, error) {
	if path == "" {
		return NewLoader(WithOptionalConfigFile(DefaultFile)).Load()
	}
	return NewLoader(WithConfigFile(path)).Load()
}

// mapProvider is a koanf provider over an in-memory map.
type mapProvider map[string]any

// ReadBytes is not supported; koanf uses Read for map providers.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("config: ReadBytes not supported by map provider")
}

// Read returns the configuration map.
func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
