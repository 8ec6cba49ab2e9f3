// Package snapshot implements the snapshot regression-testing engine.
//
// An Engine is bound to one test file. It loads the file's persisted
// snapshots once, compares every snapshot assertion made while the file's
// tests run, and decides per assertion whether a mismatch is a failure, an
// accepted update or a newly recorded baseline. At the end of the file Save
// persists the working mapping, or deletes an artifact that has become empty.
//
// # Update Modes
//
//   - ModeNew: record snapshots that do not exist yet; mismatches fail
//   - ModeAll: overwrite mismatching snapshots and prune unchecked ones
//   - ModeNone: never write; a missing snapshot is a failure
//
// # Keys
//
// Each assertion is stored under "<test name> <n>" where n counts the
// assertions made by that test so far, starting at 1. Keys left unchecked at
// the end of a run belong to tests that no longer assert them and are stale.
//
// # Concurrency
//
// Tests in one file may run in parallel, so every Engine method is safe for
// concurrent use. Save must only be called after all of the file's tests
// have finished.
package snapshot
