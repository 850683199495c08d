package engine

import "errors"

var (
	// ErrIllegalAction is returned when an action is not allowed in the current session state.
	// Nothing is mutated when it is returned.
	ErrIllegalAction = errors.New("illegal action")
	// ErrDataIntegrity is returned for unknown keys, bad indexes and invalid content tables.
	ErrDataIntegrity = errors.New("data integrity")
)
