package apperrors

import "errors"

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrNotFound indicates that a requested record could not be found.
var ErrNotFound = errors.New("record not found")

// ErrIllegalTransition indicates a status change outside the yard transition table.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrInvalidStatus indicates a status value outside Scheduled, Washing and Done.
var ErrInvalidStatus = errors.New("invalid status")

// ErrConflict indicates the record changed between read and write.
var ErrConflict = errors.New("record was modified concurrently")

// ErrUpstream indicates an external service such as the WhatsApp API rejected the call.
var ErrUpstream = errors.New("upstream service failed")
