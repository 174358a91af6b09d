// Package hash provides the fast non-cryptographic name hash used as an
// index accelerator wherever MED identifies something by name rather than
// by its on-disk UID: a session's channel-name lookup map and the record
// plane's optional record-name interning. Named entities remain the
// source of truth; the hash only accelerates the lookup.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}
