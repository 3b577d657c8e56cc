// Package dotmap provides uniform key-based access over typed records,
// ordered plain mappings and named collections.
//
// Every container implements Gettable, so callers can read a declared
// field of a record, an entry of a collection, or a raw key of a mapping
// the same way:
//
//	v, ok := g.Get("fnr")
//	v, err := dotmap.Lookup(g, 0)
//	v, err := dotmap.GetPath(g, "variables.fnr.length")
//
// Keys are enumerated in declaration order for records and insertion order
// for mappings and collections.
package dotmap
