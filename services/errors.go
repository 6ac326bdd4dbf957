package services

import "fmt"

// ValidationError indicates malformed or incomplete input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ForbiddenError indicates a tenant-scope violation.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "forbidden"
	}
	return e.Message
}

// ConflictError indicates the operation would violate referential integrity.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ResolutionError indicates an address could not be resolved to coordinates.
type ResolutionError struct {
	Address string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve address %q: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("could not resolve address %q", e.Address)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
