package snaptest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snapkit/internal/config"
	"github.com/roach88/snapkit/internal/snapshot"
	"github.com/roach88/snapkit/internal/store"
	"github.com/roach88/snapkit/internal/testutil"
)

// recorder captures failures instead of failing the enclosing test.
type recorder struct {
	testing.TB
	name   string
	errors []string
}

func (r *recorder) Name() string { return r.name }
func (r *recorder) Helper()      {}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func newSuite(t *testing.T, path string, mode snapshot.UpdateMode) *Suite {
	t.Helper()
	s, err := New(context.Background(), path, snapshot.WithMode(mode))
	require.NoError(t, err)
	return s
}

func TestSuite_RecordThenMatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "__snapshots__", "thing_test.go.snap")

	s := newSuite(t, path, snapshot.ModeNew)
	r := &recorder{name: "TestThing"}
	assert.True(t, s.Match(r, map[string]any{"b": 2, "a": 1}))
	assert.True(t, s.Match(r, "second"))
	assert.Empty(t, r.errors)

	sum, err := s.Finish(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Saved)
	assert.Equal(t, 2, sum.Stats.Added)

	data, _, err := store.NewFile().Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TestThing 1", "TestThing 2"}, data.Keys())

	s = newSuite(t, path, snapshot.ModeNone)
	r = &recorder{name: "TestThing"}
	assert.True(t, s.Match(r, map[string]any{"a": 1, "b": 2}))
	assert.False(t, s.Match(r, "changed"))
	require.Len(t, r.errors, 1)
	assert.Contains(t, r.errors[0], `snapshot "TestThing 2" mismatched`)
	assert.Contains(t, r.errors[0], `-"second"`)
	assert.Contains(t, r.errors[0], `+"changed"`)

	sum, err = s.Finish(ctx)
	require.NoError(t, err)
	assert.False(t, sum.Saved)
	assert.Equal(t, snapshot.Stats{Matched: 1, Unmatched: 1}, sum.Stats)
}

func TestSuite_MatchNamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.snap")
	s := newSuite(t, path, snapshot.ModeNew)
	r := &recorder{name: "TestNamed"}

	assert.True(t, s.MatchNamed(r, "custom key", 42))
	assert.Equal(t, "\n42\n", s.Engine().Data()["custom key"])
}

func TestSuite_MissingInNoneMode(t *testing.T) {
	s := newSuite(t, filepath.Join(t.TempDir(), "none.snap"), snapshot.ModeNone)
	r := &recorder{name: "TestMissing"}

	assert.False(t, s.Match(r, "value"))
	require.Len(t, r.errors, 1)
	assert.Contains(t, r.errors[0], `snapshot "TestMissing 1" is missing`)
}

func TestSuite_SerializeError(t *testing.T) {
	s := newSuite(t, filepath.Join(t.TempDir(), "err.snap"), snapshot.ModeNew)
	r := &recorder{name: "TestChan"}

	assert.False(t, s.Match(r, make(chan int)))
	require.Len(t, r.errors, 1)
	assert.Contains(t, r.errors[0], "snapshot:")
}

func TestSuite_Fail(t *testing.T) {
	s := newSuite(t, filepath.Join(t.TempDir(), "fail.snap"), snapshot.ModeNew)
	r := &recorder{name: "TestFail"}

	s.Fail(r, errors.New("boom"))
	assert.True(t, s.Match(r, "after"))

	require.Len(t, r.errors, 1)
	assert.Contains(t, r.errors[0], `snapshot "TestFail 1"`)
	assert.Contains(t, r.errors[0], "boom")
	_, ok := s.Engine().Data()["TestFail 2"]
	assert.True(t, ok, "the failed assertion still advances the counter")
}

func TestSuite_SkipKeepsSnapshots(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "skip.snap")
	require.NoError(t, store.NewFile().Save(ctx, store.Data{
		"TestSkipped 1": "\n\"kept\"\n",
		"TestGone 1":    "\n\"stale\"\n",
	}, path))

	s := newSuite(t, path, snapshot.ModeAll)
	s.Skip(&recorder{name: "TestSkipped"})

	sum, err := s.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TestGone 1"}, sum.Obsolete)
	assert.True(t, sum.Removed)
	assert.True(t, sum.Saved)

	data, _, err := store.NewFile().Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TestSkipped 1"}, data.Keys())
}

func TestSuite_FinishReportsObsoleteWithoutRemoving(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "obsolete.snap")
	require.NoError(t, store.NewFile().Save(ctx, store.Data{"TestOld 1": "\n1\n"}, path))

	s := newSuite(t, path, snapshot.ModeNew)
	sum, err := s.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TestOld 1"}, sum.Obsolete)
	assert.False(t, sum.Removed)
	assert.Contains(t, sum.String(), "1 obsolete")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSuite_FinishDeletesEmptyArtifact(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.snap")
	require.NoError(t, store.NewFile().Save(ctx, store.Data{"TestOld 1": "\n1\n"}, path))

	s := newSuite(t, path, snapshot.ModeAll)
	sum, err := s.Finish(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Deleted)
	assert.Contains(t, sum.String(), "(deleted)")

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_FileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Update = "new"
	cfg.Format = "yaml"

	s, err := Open(ctx, cfg, filepath.Join(dir, "thing_test.go"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "__snapshots__", "thing_test.go.snap"), s.Engine().Path())

	r := &recorder{name: "TestYAML"}
	assert.True(t, s.Match(r, map[string]any{"name": "snap"}))
	assert.Equal(t, "\nname: snap\n", s.Engine().Data()["TestYAML 1"])

	_, err = s.Finish(ctx)
	require.NoError(t, err)
}

func TestOpen_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Update = "new"
	cfg.Backend = config.BackendSQLite
	cfg.Database = filepath.Join(dir, "snapshots.db")
	testFile := filepath.Join(dir, "db_test.go")

	s, err := Open(ctx, cfg, testFile)
	require.NoError(t, err)
	assert.True(t, s.Match(&recorder{name: "TestDB"}, []int{1, 2}))
	sum, err := s.Finish(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Saved)

	cfg.Update = "none"
	s, err = Open(ctx, cfg, testFile)
	require.NoError(t, err)
	r := &recorder{name: "TestDB"}
	assert.True(t, s.Match(r, []int{1, 2}))
	assert.Empty(t, r.errors)
	_, err = s.Finish(ctx)
	require.NoError(t, err)

	_, err = os.Stat(ArtifactPath(cfg, testFile))
	assert.ErrorIs(t, err, os.ErrNotExist, "sqlite backend writes no artifact file")
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "redis"

	_, err := Open(context.Background(), cfg, "x_test.go")
	assert.Error(t, err)
}

func TestSummary_String(t *testing.T) {
	sum := Summary{
		Path:     "a.snap",
		Stats:    snapshot.Stats{Added: 1, Matched: 2, Updated: 3, Unmatched: 4},
		Saved:    true,
		Obsolete: []string{"x 1", "y 1"},
		Removed:  true,
	}
	assert.Equal(t, "a.snap: 2 matched, 1 added, 3 updated, 4 failed, 2 removed (written)", sum.String())
}

func TestSuite_FinishReportsSaveError(t *testing.T) {
	ioErr := &store.Error{Op: "save", Path: "x.snap", Kind: store.KindIO, Err: errors.New("read-only")}
	st := &testutil.MemStore{SaveErr: ioErr}

	s, err := New(context.Background(), "x.snap", snapshot.WithStore(st), snapshot.WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)
	assert.True(t, s.Match(&recorder{name: "TestSave"}, 1))

	_, err = s.Finish(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsIOError(err))
	assert.Zero(t, st.Saves)
}
