package render

import "errors"

var (
	// ErrDuplicateComponent indicates an attempt to register a component tag twice.
	ErrDuplicateComponent = errors.New("render: duplicate component")
	// ErrInvalidComponent occurs when a definition fails validation.
	ErrInvalidComponent = errors.New("render: invalid component definition")
	// ErrReservedTag occurs when a definition targets a structural tag the
	// renderer owns.
	ErrReservedTag = errors.New("render: reserved component tag")
)
