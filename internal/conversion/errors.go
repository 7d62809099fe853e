package conversion

import "errors"

// Sentinel errors returned by the orchestrator. Handlers branch on these to
// pick response codes; the underlying detail travels in the wrapped error
// and in the conversion record's failure reason.
var (
	// ErrDuplicateConversion means an active or completed conversion already
	// exists for the same source playlist and target catalog.
	ErrDuplicateConversion = errors.New("conversion already exists for this playlist and target catalog")

	// ErrLowCompatibility means the playlist scored below the configured
	// compatibility floor and the conversion was refused before any
	// catalog traffic.
	ErrLowCompatibility = errors.New("playlist compatibility below conversion threshold")

	// ErrNoCredential means no usable access token exists for the target
	// catalog user.
	ErrNoCredential = errors.New("no credential available for target catalog")

	// ErrNotFound means the source playlist does not exist.
	ErrNotFound = errors.New("source playlist not found")

	// ErrCancelled means the conversion's context was cancelled before the
	// matching phase finished.
	ErrCancelled = errors.New("conversion cancelled")
)
