package store

import "slices"

// Data is the mapping of snapshot key to stored snapshot string for one
// test file.
type Data map[string]string

// Clone returns an independent copy of d.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Keys returns the keys of d in natural order.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, NaturalCompare)
	return keys
}
