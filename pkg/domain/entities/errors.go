package entities

import "errors"

var (
	// ErrDataUnavailable wraps failures of the recommendation or boat schedule sources
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrUnknownBoat is returned when a boat id is not in the schedule
	ErrUnknownBoat = errors.New("unknown boat")
	// ErrNoUpcomingBoat is returned when no boat with a future departure exists
	ErrNoUpcomingBoat = errors.New("no upcoming boat")
	// ErrSuperseded is returned by a load whose result was replaced by a newer request
	ErrSuperseded = errors.New("superseded by a newer request")
)
