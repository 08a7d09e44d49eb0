package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidTransition indicates an expense status change that does not follow
// one of the allowed state machine edges.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict indicates that a concurrent update won the race; the caller
// should re-read and retry the operation.
var ErrConflict = errors.New("concurrent update conflict")

// ErrHasDependents indicates that a resource cannot be deleted because other
// records still reference it.
var ErrHasDependents = errors.New("resource has dependent records")

// ErrForbidden indicates that the requesting user may not perform the action.
var ErrForbidden = errors.New("forbidden")
