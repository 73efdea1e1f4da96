package engine

import "errors"

var (
	ErrNoOwnershipGroup = errors.New("vehicle has no associated ownership group")
	ErrNotGroupMember   = errors.New("user is not an owner of this vehicle")
	ErrInvalidRange     = errors.New("range end must be after range start")
	ErrInvalidDuration  = errors.New("requested duration must be positive")
)

// IsInvalidArgument reports whether err belongs to the caller-error class that
// should surface as a 4xx response.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrNoOwnershipGroup) ||
		errors.Is(err, ErrNotGroupMember) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidDuration)
}
