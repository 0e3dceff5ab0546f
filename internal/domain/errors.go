package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRequest is returned when a route request is built without critical bins.
	ErrEmptyRequest = errors.New("route request needs at least one critical bin")

	// ErrNoRoute is returned by routing engines that answer without a usable route.
	ErrNoRoute = errors.New("routing engine returned no route")

	ErrDuplicateBin    = errors.New("duplicate bin id")
	ErrUnknownArea     = errors.New("bin references unknown area")
	ErrInvalidPriority = errors.New("bin priority out of range")
)

// UnknownBinError reports a level update for a bin id the registry does not hold.
type UnknownBinError struct {
	ID string
}

func (e *UnknownBinError) Error() string {
	return fmt.Sprintf("unknown bin %q", e.ID)
}
