package snapshot

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidKey is returned by KeyToTestName for keys without a numeric
// occurrence suffix.
var ErrInvalidKey = errors.New("snapshot keys must end with a number")

// TestNameToKey returns the storage key for the count-th snapshot assertion
// of testName.
func TestNameToKey(testName string, count int) string {
	return testName + " " + strconv.Itoa(count)
}

// KeyToTestName recovers the test name a key was built from.
func KeyToTestName(key string) (string, error) {
	i := strings.LastIndexByte(key, ' ')
	if i < 0 || i == len(key)-1 {
		return "", ErrInvalidKey
	}
	for _, c := range key[i+1:] {
		if c < '0' || c > '9' {
			return "", ErrInvalidKey
		}
	}
	return key[:i], nil
}

// AddExtraLineBreaks wraps multi-line snapshots in leading and trailing
// newlines, which keeps them readable in the artifact.
func AddExtraLineBreaks(s string) string {
	if strings.Contains(s, "\n") {
		return "\n" + s + "\n"
	}
	return s
}

// RemoveExtraLineBreaks undoes AddExtraLineBreaks.
func RemoveExtraLineBreaks(s string) string {
	if len(s) > 2 && strings.HasPrefix(s, "\n") && strings.HasSuffix(s, "\n") {
		return s[1 : len(s)-1]
	}
	return s
}

// TrimSnapshot removes leading and trailing whitespace before two snapshots
// are compared. The set is ECMAScript's: Unicode space separators, tab,
// vertical tab, form feed, line terminators and the byte order mark. U+0085
// is not whitespace here, unlike strings.TrimSpace.
func TrimSnapshot(s string) string {
	return strings.TrimFunc(s, isSnapshotSpace)
}

func isSnapshotSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
