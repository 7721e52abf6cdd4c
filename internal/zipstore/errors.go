package zipstore

import "errors"

var (
	// ErrTooManyEntries is returned when an archive would hold more than
	// 65535 entries.
	ErrTooManyEntries = errors.New("zip archive exceeds 65535 entries")

	// ErrNameTooLong is returned for an entry name longer than 65535 bytes.
	ErrNameTooLong = errors.New("zip entry name exceeds 65535 bytes")

	// ErrArchiveTooLarge is returned when an entry size or header offset
	// does not fit in 32 bits.
	ErrArchiveTooLarge = errors.New("zip archive exceeds 4 GiB")

	// ErrClosed is returned by Add after Close.
	ErrClosed = errors.New("zip writer is closed")
)
