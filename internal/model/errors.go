package model

import "errors"

// Error kinds. Every store error matches exactly one of them via errors.Is.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrEmptyName       = &kindError{kind: ErrValidation, msg: "name must not be empty"}
	ErrDuplicateName   = &kindError{kind: ErrValidation, msg: "name already in use"}
	ErrDecayOutOfRange = &kindError{kind: ErrValidation, msg: "decay rate out of range"}
	ErrNegativeScore   = &kindError{kind: ErrValidation, msg: "score must not be negative"}
	ErrIndexOutOfRange = &kindError{kind: ErrValidation, msg: "score index out of range"}

	ErrCategoryNotFound = &kindError{kind: ErrNotFound, msg: "category not found"}
	ErrItemNotFound     = &kindError{kind: ErrNotFound, msg: "item not found"}
)

// kindError is a sentinel that also unwraps to its kind, so callers can branch
// on either the specific failure or the broad class.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
