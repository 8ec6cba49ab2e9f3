package cli

import (
	"context"
	"fmt"

	"github.com/roach88/snapkit/internal/snapshot"
	"github.com/roach88/snapkit/internal/store"
)

// loadArtifact loads the artifact at path, reporting a missing artifact as
// an ExitError instead of an empty mapping.
func loadArtifact(ctx context.Context, st snapshot.Store, f *OutputFormatter, path string) (store.Data, bool, error) {
	exists, err := st.Exists(ctx, path)
	if err != nil {
		code, exit := storeErrorCode(err)
		return nil, false, f.fail(exit, code, err.Error(), map[string]string{"path": path})
	}
	if !exists {
		return nil, false, f.fail(ExitFailure, ErrCodeNotFound,
			fmt.Sprintf("artifact not found: %s", path), nil)
	}

	data, dirty, err := st.Load(ctx, path)
	if err != nil {
		code, exit := storeErrorCode(err)
		return nil, false, f.fail(exit, code, err.Error(), map[string]string{"path": path})
	}
	return data, dirty, nil
}

// testNames returns the distinct test names of data's keys, in key order.
// Keys that do not decode are skipped.
func testNames(data store.Data) []string {
	seen := make(map[string]bool)
	var names []string
	for _, key := range data.Keys() {
		name, err := snapshot.KeyToTestName(key)
		if err != nil || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
