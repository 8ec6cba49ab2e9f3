// Package store persists snapshot mappings.
//
// A persisted artifact holds every snapshot recorded for one test file as an
// ordered string-keyed mapping. Two backends are provided:
//   - File: one text artifact per test file, encoded canonically by Encode
//   - SQLite: every artifact as rows in a shared database, keyed by path
//
// Both backends treat an absent artifact as an empty mapping rather than an
// error, and both report "dirty" on load when the stored form is not what
// they would write themselves for the same mapping.
//
// # Artifact Encoding
//
// The File backend writes:
//
//	// snapkit snapshot v1
//
//	exports[`cart adds item 1`] = `
//	{
//	  "qty": 3,
//	}
//	`;
//
//	exports[`cart total 1`] = `4`;
//
// Keys and values are backtick strings in which backtick, backslash and
// "${" are escaped with a backslash. Entries are sorted in natural key order
// so "t 2" precedes "t 10" and diffs stay small.
//
// # Errors
//
// Failures are reported as *Error carrying a Kind. Use IsIOError and
// IsMalformed to classify wrapped errors.
package store
