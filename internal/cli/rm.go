package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RmResult reports a removal.
type RmResult struct {
	Path    string `json:"path"`
	Removed bool   `json:"removed"`
}

func (r RmResult) String() string {
	if r.Removed {
		return fmt.Sprintf("removed %s", r.Path)
	}
	return fmt.Sprintf("%s does not exist", r.Path)
}

// NewRmCommand creates the rm command.
func NewRmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <artifact>",
		Short:         "Remove a snapshot artifact",
		Long:          "Remove a snapshot artifact. Removing an artifact that does not exist succeeds.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(rootOpts, args[0], cmd)
		},
	}
}

func runRm(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	st, closeStore, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	exists, err := st.Exists(ctx, path)
	if err != nil {
		code, exit := storeErrorCode(err)
		return f.fail(exit, code, err.Error(), map[string]string{"path": path})
	}
	if exists {
		if err := st.Remove(ctx, path); err != nil {
			code, exit := storeErrorCode(err)
			return f.fail(exit, code, err.Error(), map[string]string{"path": path})
		}
		opts.logger.Info("artifact removed", "path", path)
	}

	return f.Success(RmResult{Path: path, Removed: exists})
}
