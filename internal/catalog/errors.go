package catalog

import "errors"

var (
	// ErrNotFound indicates a referenced entity does not exist in the store.
	ErrNotFound = errors.New("catalog: not found")
	// ErrBadRequest indicates a required input, such as a search term, was absent.
	ErrBadRequest = errors.New("catalog: bad request")
	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("catalog: conflict")
	// ErrInternal indicates a post-condition was violated, such as a created
	// record missing its assigned identifier.
	ErrInternal = errors.New("catalog: internal")
)
