package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/snapkit/internal/serialize"
	"github.com/roach88/snapkit/internal/store"
)

// Engine tracks the snapshots of one test file for one run.
//
// INVARIANTS:
//   - every key in uncheckedKeys is also a key of initialData
//   - a key is removed from uncheckedKeys before it is removed from data
//   - counters only grow until Clear
type Engine struct {
	mu sync.Mutex

	path       string
	store      Store
	serializer serialize.Serializer
	format     serialize.Config
	mode       UpdateMode
	expand     bool
	logger     *slog.Logger

	initialData   store.Data
	data          store.Data
	dirty         bool
	uncheckedKeys map[string]struct{}
	counters      map[string]int

	added     int
	matched   int
	unmatched int
	updated   int
}

// New loads the artifact at path and returns an Engine for it.
// A missing artifact is an empty mapping; any other load failure is returned.
func New(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	e := &Engine{
		path:       path,
		store:      store.NewFile(),
		serializer: serialize.Canonical{},
		format:     serialize.DefaultConfig(),
		mode:       ModeNew,
		logger:     slog.Default(),
		counters:   make(map[string]int),
	}

	for _, opt := range opts {
		opt(e)
	}

	if _, err := ParseUpdateMode(string(e.mode)); err != nil {
		return nil, err
	}

	data, dirty, err := e.store.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	if dirty {
		e.logger.Warn("snapshot artifact is not in canonical form", "path", path)
	}

	e.initialData = data.Clone()
	e.data = data
	e.dirty = dirty
	e.uncheckedKeys = make(map[string]struct{}, len(data))
	for k := range data {
		e.uncheckedKeys[k] = struct{}{}
	}

	e.logger.Debug("snapshots loaded",
		"path", path,
		"count", len(data),
		"mode", e.mode,
	)
	return e, nil
}

// Match compares one received value against its stored snapshot and applies
// the update mode. A returned error means the value could not be serialized
// or the artifact's existence could not be checked; no outcome is counted.
func (e *Engine) Match(ctx context.Context, opts MatchOptions) (MatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.counters[opts.TestName]++
	count := e.counters[opts.TestName]

	key := opts.Key
	if key == "" {
		key = TestNameToKey(opts.TestName, count)
	}
	key = store.NormalizeNewlines(key)

	// An inline assertion does not check an external snapshot under the same
	// key, so ModeAll can still prune it.
	if _, ok := e.data[key]; !(opts.IsInline && ok) {
		delete(e.uncheckedKeys, key)
	}

	serialized, err := e.serializer.Serialize(opts.Received, e.format)
	if err != nil {
		return MatchResult{Key: key, Count: count}, fmt.Errorf("snapshot %q: %w", key, err)
	}
	received := AddExtraLineBreaks(serialized)

	var expected *string
	if opts.IsInline {
		expected = opts.InlineSnapshot
	} else if v, ok := e.data[key]; ok {
		expected = &v
	}

	pass := expected != nil && TrimSnapshot(*expected) == TrimSnapshot(received)
	hasSnapshot := expected != nil

	isPersisted := opts.IsInline
	if !isPersisted {
		isPersisted, err = e.store.Exists(ctx, e.path)
		if err != nil {
			return MatchResult{Key: key, Count: count}, fmt.Errorf("snapshot %q: %w", key, err)
		}
	}

	// Store the freshly serialized form even on a pass. If anything else
	// dirties the file, this entry is written back with current escaping.
	if pass && !opts.IsInline {
		e.data[key] = received
	}

	shouldWrite := (hasSnapshot && e.mode == ModeAll) ||
		((!hasSnapshot || !isPersisted) && e.mode.writes())

	if shouldWrite {
		if e.mode == ModeAll {
			if !pass {
				if hasSnapshot {
					e.updated++
				} else {
					e.added++
				}
				e.addSnapshot(key, received, hasSnapshot)
			} else {
				e.matched++
			}
		} else {
			e.addSnapshot(key, received, hasSnapshot)
			e.added++
		}
		return MatchResult{Pass: true, Key: key, Count: count}, nil
	}

	if !pass {
		e.unmatched++
		res := MatchResult{
			Pass:   false,
			Key:    key,
			Count:  count,
			Actual: RemoveExtraLineBreaks(received),
		}
		if expected != nil {
			exp := RemoveExtraLineBreaks(*expected)
			res.Expected = &exp
		}
		e.logger.Debug("snapshot mismatch", "key", key, "has_snapshot", hasSnapshot)
		return res, nil
	}

	e.matched++
	return MatchResult{Pass: true, Key: key, Count: count}, nil
}

func (e *Engine) addSnapshot(key, received string, replaced bool) {
	e.dirty = true
	e.data[key] = received
	e.logger.Debug("snapshot written", "key", key, "replaced", replaced, "mode", e.mode)
}

// Fail records an assertion whose value could not be computed. The
// occurrence counter still advances, so later assertions of the same test
// keep their keys. Returns the key the assertion would have used.
func (e *Engine) Fail(testName, key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.counters[testName]++
	count := e.counters[testName]

	if key == "" {
		key = TestNameToKey(testName, count)
	}
	key = store.NormalizeNewlines(key)

	delete(e.uncheckedKeys, key)
	e.unmatched++
	return key
}

// MarkSnapshotsAsCheckedForTest marks every unchecked key of testName as
// used, for tests that were skipped or did not reach their assertions.
// Keys that do not decode to a test name are left unchecked.
func (e *Engine) MarkSnapshotsAsCheckedForTest(testName string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	testName = store.NormalizeNewlines(testName)
	for key := range e.uncheckedKeys {
		if name, err := KeyToTestName(key); err == nil && name == testName {
			delete(e.uncheckedKeys, key)
		}
	}
}

// RemoveUncheckedKeys deletes every still-unchecked snapshot from the
// working mapping. Only ModeAll prunes; in other modes stale keys are
// reported but kept.
func (e *Engine) RemoveUncheckedKeys() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeAll || len(e.uncheckedKeys) == 0 {
		return
	}

	e.dirty = true
	for key := range e.uncheckedKeys {
		delete(e.uncheckedKeys, key)
		delete(e.data, key)
	}
	e.logger.Debug("stale snapshots removed", "path", e.path)
}

// Clear restores the working mapping to what was loaded and resets the
// occurrence counters and outcome counters, for re-running a file.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.data = e.initialData.Clone()
	e.counters = make(map[string]int)
	e.added = 0
	e.matched = 0
	e.unmatched = 0
	e.updated = 0
}

// Save persists the working mapping when it changed or still holds
// unchecked keys. When the mapping is empty and an artifact exists, the
// artifact is removed in ModeAll; Deleted is reported in every mode.
func (e *Engine) Save(ctx context.Context) (SaveStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var status SaveStatus
	nonEmpty := len(e.data) > 0

	if (e.dirty || len(e.uncheckedKeys) > 0) && nonEmpty {
		if err := e.store.Save(ctx, e.data, e.path); err != nil {
			return status, fmt.Errorf("save snapshots: %w", err)
		}
		status.Saved = true
		e.logger.Info("snapshots saved", "path", e.path, "count", len(e.data))
		return status, nil
	}

	if nonEmpty {
		return status, nil
	}

	exists, err := e.store.Exists(ctx, e.path)
	if err != nil {
		return status, fmt.Errorf("save snapshots: %w", err)
	}
	if !exists {
		return status, nil
	}

	// TODO: Deleted is reported even when ModeAll is off and the artifact
	// stays on disk; decide whether callers should see that as obsolete.
	if e.mode == ModeAll {
		if err := e.store.Remove(ctx, e.path); err != nil {
			return status, fmt.Errorf("save snapshots: %w", err)
		}
		e.logger.Info("snapshot artifact removed", "path", e.path)
	}
	status.Deleted = true
	return status, nil
}

// UncheckedCount returns the number of loaded keys not yet used this run.
func (e *Engine) UncheckedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.uncheckedKeys)
}

// UncheckedKeys returns the loaded keys not yet used this run, in natural
// order.
func (e *Engine) UncheckedKeys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]string, 0, len(e.uncheckedKeys))
	for k := range e.uncheckedKeys {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, store.NaturalCompare)
	return keys
}

// Stats returns the outcome counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Added:     e.added,
		Matched:   e.matched,
		Unmatched: e.unmatched,
		Updated:   e.updated,
	}
}

// Data returns a copy of the working mapping.
func (e *Engine) Data() store.Data {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data.Clone()
}

// Dirty reports whether the working mapping differs from the artifact.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Path returns the artifact path.
func (e *Engine) Path() string {
	return e.path
}

// Mode returns the update mode.
func (e *Engine) Mode() UpdateMode {
	return e.mode
}

// Expand reports whether full-context diffs were requested.
func (e *Engine) Expand() bool {
	return e.expand
}
