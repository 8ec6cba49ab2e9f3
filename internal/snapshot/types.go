package snapshot

import (
	"context"

	"github.com/roach88/snapkit/internal/store"
)

// Store persists the snapshot mapping of one test file. store.File and
// store.SQLite implement it.
type Store interface {
	Load(ctx context.Context, path string) (store.Data, bool, error)
	Save(ctx context.Context, data store.Data, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Remove(ctx context.Context, path string) error
}

// MatchOptions describes one snapshot assertion.
type MatchOptions struct {
	// TestName identifies the running test.
	TestName string

	// Received is the value under test.
	Received any

	// Key overrides the key derived from TestName and the occurrence count.
	Key string

	// InlineSnapshot is the expected value written next to the assertion.
	// Only read when IsInline is set; nil means no inline value exists yet.
	InlineSnapshot *string

	// IsInline marks an inline assertion.
	IsInline bool
}

// MatchResult is the outcome of Match.
type MatchResult struct {
	Pass  bool
	Key   string
	Count int

	// Actual and Expected are set on failure only, without the extra line
	// breaks of the stored form. Expected is nil when no snapshot existed.
	Actual   string
	Expected *string
}

// SaveStatus reports what Save did with the artifact.
type SaveStatus struct {
	Saved   bool
	Deleted bool
}

// Stats holds the outcome counters of an Engine.
type Stats struct {
	Added     int `json:"added"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Updated   int `json:"updated"`
}

// Total returns the number of counted outcomes.
func (s Stats) Total() int {
	return s.Added + s.Matched + s.Unmatched + s.Updated
}
