package snaptest

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/roach88/snapkit/internal/snapshot"
)

// defaultContext is the number of unchanged lines shown around each change.
const defaultContext = 3

// FailureMessage renders a failed match for a test log. With expand set the
// diff shows every line instead of only the changed hunks.
func FailureMessage(res snapshot.MatchResult, mode snapshot.UpdateMode, expand bool) string {
	if res.Expected == nil {
		return fmt.Sprintf(
			"snapshot %q is missing and update mode %q does not record new snapshots\nreceived:\n%s",
			res.Key, mode, res.Actual)
	}

	a := difflib.SplitLines(*res.Expected)
	b := difflib.SplitLines(res.Actual)

	n := defaultContext
	if expand {
		n = len(a) + len(b)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: "Snapshot",
		ToFile:   "Received",
		Context:  n,
	})
	if err != nil {
		diff = fmt.Sprintf("- %s\n+ %s\n", *res.Expected, res.Actual)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "snapshot %q mismatched\n", res.Key)
	msg.WriteString(diff)
	if mode != snapshot.ModeAll {
		msg.WriteString("run with SNAPKIT_UPDATE=all to accept the received value\n")
	}
	return msg.String()
}
