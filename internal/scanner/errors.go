package scanner

import (
	"errors"
	"net/http"
)

// ErrClosed is returned once the service has been closed.
var ErrClosed = errors.New("scanner closed")

// ErrNotOpen is returned by operations that need an open camera.
var ErrNotOpen = &statusError{msg: "camera not open", code: http.StatusConflict}

// statusError carries the HTTP status the API layer should answer with.
type statusError struct {
	msg  string
	code int
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) StatusCode() int { return e.code }

func invalidArgument(msg string) error {
	return &statusError{msg: msg, code: http.StatusBadRequest}
}
