package serialize

import "fmt"

// Config controls how a Serializer renders values.
type Config struct {
	// PrintBasicPrototype prefixes plain maps with "Object " and slices
	// with "Array ".
	PrintBasicPrototype bool `koanf:"print_basic_prototype" yaml:"print_basic_prototype"`

	// Indent is the number of spaces per nesting level.
	Indent int `koanf:"indent" yaml:"indent"`

	// EscapeString escapes double quotes and backslashes inside strings.
	EscapeString bool `koanf:"escape_string" yaml:"escape_string"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		PrintBasicPrototype: false,
		Indent:              2,
		EscapeString:        true,
	}
}

// Serializer converts a received value into its canonical snapshot string.
type Serializer interface {
	Serialize(v any, cfg Config) (string, error)
}

// Format names a built-in serializer.
type Format string

const (
	FormatCanonical Format = "canonical"
	FormatYAML      Format = "yaml"
)

// ForFormat returns the built-in serializer for the given format name.
func ForFormat(f Format) (Serializer, error) {
	switch f {
	case FormatCanonical, "":
		return Canonical{}, nil
	case FormatYAML:
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown serializer format %q", f)
	}
}
