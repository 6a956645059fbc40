// Package apierr carries an HTTP status and machine-readable code alongside
// an error so handlers can map service failures onto responses.
package apierr

import "fmt"

// Error is returned by services for failures a handler should surface with a
// specific status, such as an unknown subject id or an unpredictable subject.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
