package engine

import "errors"

var (
	// ErrActionBlocked is returned when an action addition would violate the
	// container's mutual-exclusion or cardinality constraints. It signals a
	// no-op outcome, not a fault: the document is unchanged.
	ErrActionBlocked = errors.New("action blocked by container constraints")

	// ErrContainerNotFound is returned when the addressed container does not
	// exist in the document.
	ErrContainerNotFound = errors.New("container not found")

	// ErrConditionNotFound is returned when the addressed condition does not
	// exist in its container.
	ErrConditionNotFound = errors.New("condition not found")

	// ErrActionNotFound is returned when the addressed action does not exist
	// in its container.
	ErrActionNotFound = errors.New("action not found")

	// ErrInvalidKind is returned when a container kind outside the known set
	// is requested.
	ErrInvalidKind = errors.New("invalid container kind")

	// ErrInvalidSubject is returned when a condition subject outside the
	// known set is requested.
	ErrInvalidSubject = errors.New("invalid condition subject")

	// ErrInvalidOperator is returned when an operator outside the known set
	// is requested.
	ErrInvalidOperator = errors.New("invalid operator")
)
