package playlist

import "errors"

// Custom playlist fetcher errors
var (
	// ErrPlaylistUnavailable indicates the upstream playlist could not be
	// fetched or parsed; the prior channel list stays published.
	ErrPlaylistUnavailable = errors.New("playlist unavailable")

	// ErrNoUsableChannels indicates a playlist parsed cleanly but every
	// entry failed validation.
	ErrNoUsableChannels = errors.New("playlist contains no usable channels")
)

// IsUnavailable checks if the error is a playlist unavailable error
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrPlaylistUnavailable)
}
