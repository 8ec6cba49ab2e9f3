package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// InspectResult describes one artifact.
type InspectResult struct {
	Path      string   `json:"path"`
	Count     int      `json:"count"`
	Tests     int      `json:"tests"`
	Canonical bool     `json:"canonical"`
	Keys      []string `json:"keys"`
}

func (r InspectResult) String() string {
	var b strings.Builder
	state := "canonical"
	if !r.Canonical {
		state = "not canonical"
	}
	fmt.Fprintf(&b, "%s: %d snapshot(s) from %d test(s), %s", r.Path, r.Count, r.Tests, state)
	for _, k := range r.Keys {
		fmt.Fprintf(&b, "\n  %s", k)
	}
	return b.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <artifact>",
		Short: "List the snapshots stored in an artifact",
		Long: `List the keys stored in a snapshot artifact, with the number of tests
they belong to and whether the artifact is in canonical form.

Examples:
  snapkit inspect __snapshots__/engine_test.go.snap
  snapkit inspect --backend sqlite --db .snapshots.db pkg/__snapshots__/a_test.go.snap`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, closeStore, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	data, dirty, err := loadArtifact(cmd.Context(), st, f, path)
	if err != nil {
		return err
	}

	return f.Success(InspectResult{
		Path:      path,
		Count:     len(data),
		Tests:     len(testNames(data)),
		Canonical: !dirty,
		Keys:      data.Keys(),
	})
}
