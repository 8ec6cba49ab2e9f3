package snapshot

import "fmt"

// UpdateMode is the policy deciding when snapshots are written.
type UpdateMode string

const (
	// ModeNew writes snapshots that do not exist yet.
	ModeNew UpdateMode = "new"

	// ModeAll overwrites every mismatching snapshot and prunes stale ones.
	ModeAll UpdateMode = "all"

	// ModeNone never writes. Used on CI.
	ModeNone UpdateMode = "none"
)

// ValidModes lists the accepted update modes.
var ValidModes = []UpdateMode{ModeNew, ModeAll, ModeNone}

// ParseUpdateMode validates a mode name.
func ParseUpdateMode(s string) (UpdateMode, error) {
	for _, m := range ValidModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid update mode %q: must be one of %v", s, ValidModes)
}

func (m UpdateMode) writes() bool {
	return m == ModeNew || m == ModeAll
}
