package constants

import (
	"errors"
	"net/http"
)

// CodedError is an error that knows which HTTP status it should be reported with.
type CodedError struct {
	err  error
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{err: errors.New(msg), code: code}
}

func (e *CodedError) Error() string {
	return e.err.Error()
}

func (e *CodedError) Unwrap() error {
	return e.err
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound     = NewCodedError("not found", http.StatusNotFound)
	ErrBadRequest     = NewCodedError("bad request", http.StatusBadRequest)
	ErrUnknownService = NewCodedError("unknown service", http.StatusBadRequest)
	ErrEmptyUpdate    = NewCodedError("nothing to update", http.StatusBadRequest)
	ErrUnknownView    = NewCodedError("unknown dashboard view", http.StatusBadRequest)
	ErrNotReady       = NewCodedError("dashboard is not loaded yet", http.StatusServiceUnavailable)
)
