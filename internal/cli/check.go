package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// FileCheck is the check outcome of one artifact.
type FileCheck struct {
	Path      string `json:"path"`
	Canonical bool   `json:"canonical"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CheckResult holds the outcome of the check command.
type CheckResult struct {
	Files  []FileCheck `json:"files"`
	Passed int         `json:"passed"`
	Failed int         `json:"failed"`
}

func (r CheckResult) String() string {
	var b strings.Builder
	for _, fc := range r.Files {
		switch {
		case fc.Error != "":
			fmt.Fprintf(&b, "✗ %s: %s [%s]\n", fc.Path, fc.Error, fc.Code)
		case !fc.Canonical:
			fmt.Fprintf(&b, "✗ %s: not canonical [%s]\n", fc.Path, fc.Code)
		default:
			fmt.Fprintf(&b, "✓ %s\n", fc.Path)
		}
	}
	fmt.Fprintf(&b, "%d passed, %d failed", r.Passed, r.Failed)
	return b.String()
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <artifact>...",
		Short: "Verify artifacts are in canonical form",
		Long: `Verify that each artifact parses and is byte-identical to its canonical
encoding. Hand edits, CRLF line endings and unsorted keys are reported.

Exit codes:
  0 - All artifacts are canonical
  1 - One or more artifacts are missing, malformed or not canonical
  2 - Command error (bad flags, I/O failure, etc.)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}
}

func runCheck(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	st, closeStore, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	result := CheckResult{Files: make([]FileCheck, 0, len(paths))}
	var firstCode string
	for _, path := range paths {
		fc := FileCheck{Path: path}

		exists, err := st.Exists(ctx, path)
		switch {
		case err != nil:
			fc.Code, _ = storeErrorCode(err)
			fc.Error = err.Error()
		case !exists:
			fc.Code = ErrCodeNotFound
			fc.Error = "not found"
		default:
			_, dirty, err := st.Load(ctx, path)
			switch {
			case err != nil:
				fc.Code, _ = storeErrorCode(err)
				fc.Error = err.Error()
			case dirty:
				fc.Code = ErrCodeNotCanonical
			default:
				fc.Canonical = true
			}
		}

		if fc.Canonical {
			result.Passed++
		} else {
			if result.Failed == 0 {
				firstCode = fc.Code
			}
			result.Failed++
			opts.logger.Debug("artifact failed check", "path", path, "error", fc.Error)
		}
		result.Files = append(result.Files, fc)
	}

	if err := f.Success(result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure,
			fmt.Sprintf("[%s] %d artifact(s) failed check", firstCode, result.Failed))
	}
	return nil
}
