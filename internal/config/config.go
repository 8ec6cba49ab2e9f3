package config

import (
	"fmt"

	"github.com/roach88/snapkit/internal/serialize"
	"github.com/roach88/snapkit/internal/snapshot"
)

// Backend names a snapshot store.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultFile is the configuration file read when present.
const DefaultFile = "snapkit.yaml"

// Config holds every snapkit setting.
type Config struct {
	// Update is the update mode: "new", "all", "none", or empty to derive it
	// from CI.
	Update string `koanf:"update"`

	// CI marks a continuous-integration run. Without an explicit Update it
	// selects mode "none".
	CI bool `koanf:"ci"`

	// Expand shows full-context diffs on mismatch.
	Expand bool `koanf:"expand"`

	// Format selects the serializer: "canonical" or "yaml".
	Format string `koanf:"format"`

	// Backend selects the store: "file" or "sqlite".
	Backend string `koanf:"backend"`

	// Database is the SQLite database path for the sqlite backend.
	Database string `koanf:"database"`

	// Dir is the directory, relative to a test file, holding its artifact.
	Dir string `koanf:"dir"`

	// Extension is appended to the test file name to name its artifact.
	Extension string `koanf:"extension"`

	Serializer serialize.Config `koanf:"serializer"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:     string(serialize.FormatCanonical),
		Backend:    BackendFile,
		Database:   ".snapshots.db",
		Dir:        "__snapshots__",
		Extension:  ".snap",
		Serializer: serialize.DefaultConfig(),
	}
}

func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"update":    d.Update,
		"ci":        d.CI,
		"expand":    d.Expand,
		"format":    d.Format,
		"backend":   d.Backend,
		"database":  d.Database,
		"dir":       d.Dir,
		"extension": d.Extension,
		"serializer": map[string]any{
			"print_basic_prototype": d.Serializer.PrintBasicPrototype,
			"indent":                d.Serializer.Indent,
			"escape_string":         d.Serializer.EscapeString,
		},
	}
}

// UpdateMode resolves the effective update mode: an explicit Update wins,
// otherwise CI runs use "none" and everything else "new".
func (c Config) UpdateMode() (snapshot.UpdateMode, error) {
	if c.Update != "" {
		return snapshot.ParseUpdateMode(c.Update)
	}
	if c.CI {
		return snapshot.ModeNone, nil
	}
	return snapshot.ModeNew, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if _, err := c.UpdateMode(); err != nil {
		return err
	}
	if _, err := serialize.ForFormat(serialize.Format(c.Format)); err != nil {
		return err
	}
	switch c.Backend {
	case BackendFile:
	case BackendSQLite:
		if c.Database == "" {
			return fmt.Errorf("backend %q requires a database path", c.Backend)
		}
	default:
		return fmt.Errorf("invalid backend %q: must be %q or %q", c.Backend, BackendFile, BackendSQLite)
	}
	if c.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}
	return nil
}
