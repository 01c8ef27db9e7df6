package layout

import "errors"

// Formatting errors
var (
	// ErrUnbalancedMarker indicates a restore that does not match the most recent apply.
	ErrUnbalancedMarker = errors.New("restore marker does not match the open apply marker")
)

// Document building errors
var (
	// ErrUnknownCommand indicates a DSL command the builder does not know.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadArgument indicates a missing or malformed command argument.
	ErrBadArgument = errors.New("bad argument")

	// ErrChildCount indicates a block with the wrong number of children.
	ErrChildCount = errors.New("wrong number of children")
)
