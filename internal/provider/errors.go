package provider

import "errors"

// Errors returned by BooksProvider. They are wrapped with detail, match them
// with errors.Is.
var (
	// ErrInvalidAddress means the address is neither the collection nor an item.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnsupportedOperation means the operation is not defined for the
	// address shape, e.g. insert on an item address.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrMissingField means title or author is null or absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidEnum means type is absent or outside the valid codes.
	ErrInvalidEnum = errors.New("invalid book type")

	// ErrImmutableField means the payload tried to set the id.
	ErrImmutableField = errors.New("field cannot be written")

	// ErrPersistenceFailure means the store rejected the operation.
	ErrPersistenceFailure = errors.New("persistence failure")
)
