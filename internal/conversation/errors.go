package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedArchive is returned for input that cannot be a conversation archive.
	ErrMalformedArchive = errors.New("malformed archive")

	// ErrNotArray is returned when the top-level JSON value is not an array.
	ErrNotArray = fmt.Errorf("%w: unexpected JSON format, top-level value is not an array", ErrMalformedArchive)

	// ErrCyclicChain is returned when parent pointers loop instead of reaching a root.
	ErrCyclicChain = fmt.Errorf("%w: parent chain does not terminate", ErrMalformedArchive)
)
