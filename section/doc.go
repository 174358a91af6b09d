// Package section defines MED's fixed-size on-disk structures: the
// universal header that prefixes every file, the password-validation
// data embedded in it, the metadata file's three sections, the
// time-series block's fixed header, and the 24-byte index and record
// header strides.
//
// Every structure here follows the same Parse/Bytes pair idiom: Parse
// reads a structure from a byte slice of the exact on-disk size using an
// endian.EndianEngine, Bytes serializes it back. Unknown reserved bytes
// are round-tripped verbatim (spec invariant 6) rather than zeroed.
package section
