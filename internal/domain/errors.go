package domain

import "errors"

var (
	// ErrInvalidStatus unknown appointment status
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidTimeRange time range with start >= end or malformed bounds
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidUnavailableType unknown unavailable date type
	ErrInvalidUnavailableType = errors.New("invalid unavailable date type")

	// ErrInvalidUnavailableDate unavailable date without a calendar date
	ErrInvalidUnavailableDate = errors.New("invalid unavailable date")
)
