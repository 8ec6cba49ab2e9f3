package snaptest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/snapkit/internal/config"
	"github.com/roach88/snapkit/internal/serialize"
	"github.com/roach88/snapkit/internal/snapshot"
	"github.com/roach88/snapkit/internal/store"
)

// Suite runs snapshot assertions for one test file.
type Suite struct {
	engine *snapshot.Engine
	closer io.Closer
	logger *slog.Logger
}

// New returns a Suite backed by an engine for the artifact at path.
func New(ctx context.Context, path string, opts ...snapshot.Option) (*Suite, error) {
	e, err := snapshot.New(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return &Suite{engine: e, logger: slog.Default()}, nil
}

// Open builds a Suite for testFile from configuration: the artifact lives
// at <cfg.Dir>/<testFile base><cfg.Extension> next to the test file.
func Open(ctx context.Context, cfg config.Config, testFile string) (*Suite, error) {
	mode, err := cfg.UpdateMode()
	if err != nil {
		return nil, err
	}
	ser, err := serialize.ForFormat(serialize.Format(cfg.Format))
	if err != nil {
		return nil, err
	}

	opts := []snapshot.Option{
		snapshot.WithMode(mode),
		snapshot.WithExpand(cfg.Expand),
		snapshot.WithSerializer(ser),
		snapshot.WithSerializerConfig(cfg.Serializer),
	}

	var closer io.Closer
	switch cfg.Backend {
	case config.BackendFile, "":
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.Database)
		if err != nil {
			return nil, err
		}
		opts = append(opts, snapshot.WithStore(db))
		closer = db
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}

	s, err := New(ctx, ArtifactPath(cfg, testFile), opts...)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	s.closer = closer
	return s, nil
}

// ArtifactPath returns where the snapshots of testFile are stored.
func ArtifactPath(cfg config.Config, testFile string) string {
	base := filepath.Base(testFile)
	return filepath.Join(filepath.Dir(testFile), cfg.Dir, base+cfg.Extension)
}

// Engine exposes the underlying engine.
func (s *Suite) Engine() *snapshot.Engine {
	return s.engine
}

// Match asserts that received matches the next snapshot of t. A mismatch is
// reported through t.Errorf with a diff; the test keeps running.
func (s *Suite) Match(t testing.TB, received any) bool {
	t.Helper()
	return s.match(t, snapshot.MatchOptions{TestName: t.Name(), Received: received})
}

// MatchNamed is Match with an explicit snapshot key.
func (s *Suite) MatchNamed(t testing.TB, key string, received any) bool {
	t.Helper()
	return s.match(t, snapshot.MatchOptions{TestName: t.Name(), Received: received, Key: key})
}

func (s *Suite) match(t testing.TB, opts snapshot.MatchOptions) bool {
	t.Helper()

	res, err := s.engine.Match(context.Background(), opts)
	if err != nil {
		t.Errorf("snapshot: %v", err)
		return false
	}
	if !res.Pass {
		t.Errorf("%s", FailureMessage(res, s.engine.Mode(), s.engine.Expand()))
		return false
	}
	return true
}

// Fail records a snapshot assertion whose value could not be computed.
func (s *Suite) Fail(t testing.TB, err error) {
	t.Helper()
	key := s.engine.Fail(t.Name(), "")
	t.Errorf("snapshot %q: value could not be computed: %v", key, err)
}

// Skip marks the snapshots of a test that did not run as still in use.
func (s *Suite) Skip(t testing.TB) {
	s.engine.MarkSnapshotsAsCheckedForTest(t.Name())
}

// Summary describes a finished suite.
type Summary struct {
	Path     string         `json:"path"`
	Stats    snapshot.Stats `json:"stats"`
	Saved    bool           `json:"saved"`
	Deleted  bool           `json:"deleted"`
	Obsolete []string       `json:"obsolete,omitempty"`
	Removed  bool           `json:"removed"`
}

// String renders a one-line report.
func (s Summary) String() string {
	parts := []string{
		fmt.Sprintf("%d matched", s.Stats.Matched),
		fmt.Sprintf("%d added", s.Stats.Added),
		fmt.Sprintf("%d updated", s.Stats.Updated),
		fmt.Sprintf("%d failed", s.Stats.Unmatched),
	}
	if n := len(s.Obsolete); n > 0 {
		verb := "obsolete"
		if s.Removed {
			verb = "removed"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, verb))
	}
	out := s.Path + ": " + strings.Join(parts, ", ")
	switch {
	case s.Saved:
		out += " (written)"
	case s.Deleted:
		out += " (deleted)"
	}
	return out
}

// Finish prunes stale snapshots (update mode "all" only) and persists the
// artifact. Call it once, after every test of the file has completed.
func (s *Suite) Finish(ctx context.Context) (Summary, error) {
	sum := Summary{
		Path:     s.engine.Path(),
		Obsolete: s.engine.UncheckedKeys(),
		Removed:  s.engine.Mode() == snapshot.ModeAll,
	}

	s.engine.RemoveUncheckedKeys()
	status, err := s.engine.Save(ctx)
	sum.Stats = s.engine.Stats()
	sum.Saved = status.Saved
	sum.Deleted = status.Deleted

	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
		s.closer = nil
	}
	return sum, err
}

// Run runs the tests of m, finishes the suite and returns the exit code for
// os.Exit. A failure to persist snapshots turns a passing run into a failure.
func Run(m *testing.M, s *Suite) int {
	code := m.Run()

	sum, err := s.Finish(context.Background())
	if err != nil {
		s.logger.Error("snapshot finish failed", "path", sum.Path, "error", err)
		if code == 0 {
			code = 1
		}
		return code
	}

	s.logger.Info("snapshot summary", "summary", sum.String())
	if len(sum.Obsolete) > 0 && !sum.Removed {
		s.logger.Warn("obsolete snapshots; run with SNAPKIT_UPDATE=all to remove them",
			"path", sum.Path,
			"keys", sum.Obsolete,
		)
	}
	return code
}
