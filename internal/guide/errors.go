package guide

import "errors"

// Custom guide index errors
var (
	// ErrUnknownChannel indicates a now/next query for a channel id that is
	// not present in the snapshot's channel list.
	ErrUnknownChannel = errors.New("unknown channel")
)

// IsUnknownChannel checks if the error is an unknown channel error
func IsUnknownChannel(err error) bool {
	return errors.Is(err, ErrUnknownChannel)
}
