// Package cache holds raw document bytes keyed by file path.
//
// jsonsafe uses it as an optional read-through layer: Load consults the cache
// before touching the filesystem and Save refreshes the entry for the path it
// wrote. Entries expire after their TTL.
package cache
