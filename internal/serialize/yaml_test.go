package serialize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLMapping(t *testing.T) {
	v := map[string]any{
		"name":  "cart",
		"count": 3,
		"tags":  map[string]bool{"b": true},
	}

	got, err := YAML{}.Serialize(v, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "count: 3\nname: cart\ntags:\n  b: true", got)
}

func TestYAMLQuotesAmbiguousStrings(t *testing.T) {
	got, err := YAML{}.Serialize("1", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `"1"`, got)

	got, err = YAML{}.Serialize("hello", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestYAMLStruct(t *testing.T) {
	got, err := YAML{}.Serialize(lineItem{SKU: "widget", Qty: 2}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "qty: 2\nsku: widget", got)
}

func TestYAMLNull(t *testing.T) {
	got, err := YAML{}.Serialize(nil, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "null", got)
}

func TestYAMLFloatsMatchCanonicalDigits(t *testing.T) {
	got, err := YAML{}.Serialize(map[string]any{"big": 1e8, "half": 0.5, "nan": math.NaN()}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "big: 100000000\nhalf: 0.5\nnan: .nan", got)
}
