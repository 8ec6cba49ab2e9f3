package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// FmtResult lists the artifacts rewritten by fmt.
type FmtResult struct {
	Rewritten []string `json:"rewritten"`
	Unchanged []string `json:"unchanged"`
}

func (r FmtResult) String() string {
	var b strings.Builder
	for _, p := range r.Rewritten {
		fmt.Fprintf(&b, "rewrote %s\n", p)
	}
	fmt.Fprintf(&b, "%d rewritten, %d unchanged", len(r.Rewritten), len(r.Unchanged))
	return b.String()
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <artifact>...",
		Short: "Rewrite artifacts in canonical form",
		Long: `Rewrite each artifact that is not in canonical form. Snapshot values are
kept as stored; only ordering, escaping and line endings change.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(rootOpts, args, cmd)
		},
	}
}

func runFmt(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	st, closeStore, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	result := FmtResult{Rewritten: []string{}, Unchanged: []string{}}
	for _, path := range paths {
		data, dirty, err := loadArtifact(ctx, st, f, path)
		if err != nil {
			return err
		}
		if !dirty {
			result.Unchanged = append(result.Unchanged, path)
			continue
		}

		if err := st.Save(ctx, data, path); err != nil {
			code, exit := storeErrorCode(err)
			return f.fail(exit, code, err.Error(), map[string]string{"path": path})
		}
		f.VerboseLog("rewrote %s (%d snapshots)", path, len(data))
		result.Rewritten = append(result.Rewritten, path)
	}

	return f.Success(result)
}
