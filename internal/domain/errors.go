package domain

import "errors"

var (
	// ErrInvalidToken is returned when a bearer token is malformed or has a bad signature
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a bearer token is well-formed but past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrPrincipalNotFound is returned when a valid token references a user that no longer exists
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrNotFound is returned when a record does not exist or the actor does not own it.
	// Ownership mismatches are deliberately indistinguishable from missing records.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied is returned when a tracker email verification fails
	ErrAccessDenied = errors.New("access denied")

	// ErrTrackerInactive is returned when a tracker has been deactivated
	ErrTrackerInactive = errors.New("tracker inactive")

	// ErrTrackerExpired is returned when a tracker is past its expiry deadline
	ErrTrackerExpired = errors.New("tracker expired")

	// ErrRetriesExhausted is returned when the code generator runs out of attempts
	ErrRetriesExhausted = errors.New("code generation retries exhausted")

	// ErrTicketAlreadyUsed is returned when marking an already-used ticket as used
	ErrTicketAlreadyUsed = errors.New("ticket already used")
)
