package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundTrip(t *testing.T) {
	names := []string{
		"adds item",
		"TestCart/adds_item",
		"trailing space ",
		"ends with digits 42",
		"",
		"multi\nline",
	}

	for _, name := range names {
		for _, count := range []int{1, 2, 10, 12345} {
			key := TestNameToKey(name, count)
			got, err := KeyToTestName(key)
			require.NoError(t, err, "key %q", key)
			assert.Equal(t, name, got, "key %q", key)
		}
	}
}

func TestTestNameToKeyFormat(t *testing.T) {
	assert.Equal(t, "adds item 1", TestNameToKey("adds item", 1))
	assert.Equal(t, "TestCart/total 10", TestNameToKey("TestCart/total", 10))
}

func TestTestNameToKeyInjective(t *testing.T) {
	seen := make(map[string][2]any)
	for _, name := range []string{"a", "a 1", "a 2", "b", "a 11"} {
		for count := 1; count <= 12; count++ {
			key := TestNameToKey(name, count)
			if prev, dup := seen[key]; dup {
				t.Fatalf("key %q produced by %v and (%q, %d)", key, prev, name, count)
			}
			seen[key] = [2]any{name, count}
		}
	}
}

func TestKeyToTestNameInvalid(t *testing.T) {
	for _, key := range []string{"", "no suffix", "trailing space ", "t 1a", "t -1", "t1"} {
		_, err := KeyToTestName(key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestExtraLineBreaks(t *testing.T) {
	tests := []struct {
		in, added string
	}{
		{"1", "1"},
		{"", ""},
		{"a\nb", "\na\nb\n"},
		{"{\n}", "\n{\n}\n"},
	}

	for _, tt := range tests {
		added := AddExtraLineBreaks(tt.in)
		assert.Equal(t, tt.added, added)
		assert.Equal(t, tt.in, RemoveExtraLineBreaks(added))
	}

	// Too short to carry padding on both sides.
	assert.Equal(t, "\n\n", RemoveExtraLineBreaks("\n\n"))
	assert.Equal(t, "\nx", RemoveExtraLineBreaks("\nx"))
}

func TestParseUpdateMode(t *testing.T) {
	for _, m := range []string{"new", "all", "none"} {
		mode, err := ParseUpdateMode(m)
		require.NoError(t, err)
		assert.Equal(t, UpdateMode(m), mode)
	}

	_, err := ParseUpdateMode("always")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid update mode")
}

func TestTrimSnapshot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  1  ", "1"},
		{"\n\"a\"\n", `"a"`},
		{"\ufeff1\u00a0", "1"},
		{"\u20281\u3000", "1"},
		{"1\u0085", "1\u0085"},
		{"\v\f1\t\r", "1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TrimSnapshot(tt.in), "%q", tt.in)
	}
}
