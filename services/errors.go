package services

import "fmt"

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError also covers entities that exist but are not visible to the caller.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Entity) }

// IllegalStateError carries the reason of the transition rule that rejected the operation.
type IllegalStateError struct {
	Reason string
}

func (e *IllegalStateError) Error() string { return e.Reason }

type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string { return e.Reason }

// ForbiddenError means the caller's role may not invoke the operation at all.
type ForbiddenError struct {
	Operation Operation
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Operation)
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func illegal(reason string) error {
	return &IllegalStateError{Reason: reason}
}
