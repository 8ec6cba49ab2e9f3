// Package serialize renders received test values into the canonical strings
// stored as snapshots.
//
// The engine never inspects a received value. It only compares the string a
// Serializer produces for it, so a Serializer must be deterministic: two
// structurally equal values always render to the same bytes.
//
// Two serializers are provided:
//   - Canonical: a pretty printer with sorted keys, one entry per line and
//     NFC-normalized strings
//   - YAML: gopkg.in/yaml.v3 output with sorted mapping keys
//
// Structured Go values (structs, maps, slices) are first passed through
// encoding/json, so struct tags decide field names and unexported fields are
// not part of a snapshot.
package serialize
