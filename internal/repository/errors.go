package repository

import "errors"

var (
	// ErrActionNotFound signals an update or delete against an unknown action id.
	// The store state is unchanged when it is returned.
	ErrActionNotFound = errors.New("action not found")
	// ErrDraftNotFound is returned for unknown or expired wizard sessions.
	ErrDraftNotFound = errors.New("wizard draft not found")
	// ErrQuarterNotFound is returned when toggling a quarter missing from the academic year.
	ErrQuarterNotFound = errors.New("quarter not found")
	// ErrHelpSectionNotFound is returned for unknown help section ids.
	ErrHelpSectionNotFound = errors.New("help section not found")
	// ErrReportJobNotFound is returned for unknown report job ids.
	ErrReportJobNotFound = errors.New("report job not found")
)
