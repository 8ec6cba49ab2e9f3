package snapshot

import (
	"log/slog"

	"github.com/roach88/snapkit/internal/serialize"
)

// Option configures an Engine.
type Option func(*Engine)

// WithMode sets the update mode. Default: ModeNew.
func WithMode(mode UpdateMode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithStore sets the persistence backend. Default: store.NewFile().
func WithStore(s Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithSerializer sets how received values are rendered.
// Default: serialize.Canonical.
func WithSerializer(s serialize.Serializer) Option {
	return func(e *Engine) {
		e.serializer = s
	}
}

// WithSerializerConfig sets the formatting passed to the serializer.
func WithSerializerConfig(cfg serialize.Config) Option {
	return func(e *Engine) {
		e.format = cfg
	}
}

// WithExpand asks the assertion layer for full-context diffs.
func WithExpand(expand bool) Option {
	return func(e *Engine) {
		e.expand = expand
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}
