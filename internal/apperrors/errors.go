package apperrors

import "errors"

// Code identifies the category of a failure independent of the transport.
type Code string

const (
	CodeMalformedPayload Code = "malformed_payload"
	CodeNetwork          Code = "network_error"
	CodeParse            Code = "parse_error"
	CodeNotFound         Code = "not_found"
	CodeStorage          Code = "storage_error"
	CodeUnauthorized     Code = "unauthorized"
)

// Error carries a stable code alongside the message and the wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so errors.Is(err, &Error{Code: CodeNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap wraps err with code. An error that already carries a code keeps it.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or the empty code.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func MalformedPayload(msg string, err error) error {
	return &Error{Code: CodeMalformedPayload, Message: msg, Err: err}
}

func Network(msg string, err error) error {
	return &Error{Code: CodeNetwork, Message: msg, Err: err}
}

func Parse(msg string, err error) error {
	return &Error{Code: CodeParse, Message: msg, Err: err}
}

func NotFound(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Storage(msg string, err error) error {
	return &Error{Code: CodeStorage, Message: msg, Err: err}
}

func Unauthorized(msg string) error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}
