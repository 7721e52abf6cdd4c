// Package zipstore writes store-only ZIP archives.
//
// Entries are never compressed and carry no timestamps, so the same inputs
// always produce the same bytes. The package has its own CRC-32
// implementation (IEEE polynomial, reflected) and writes local headers,
// the central directory and the end-of-central-directory record directly.
// ZIP64 and data descriptors are not supported; inputs that would need
// them are rejected with an error instead of being truncated.
package zipstore
