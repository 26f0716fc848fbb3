package domain

import "errors"

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the user is not allowed to perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrLocationNotFound indicates that geocoding returned no usable result.
	ErrLocationNotFound = errors.New("location not found")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)
