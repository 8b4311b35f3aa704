// Package goerror carries the error taxonomy shared by every module: sentinel
// errors raised by repositories and a structured *Error that the router turns
// into an HTTP response.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned by repositories when a unique constraint fails.
	ErrConflict = errors.New("resource conflict")
)

// Type is the high level bucket of an error.
type Type int

const (
	// TypeServer is an infrastructure or programming failure.
	TypeServer Type = iota
	// TypeBusiness is an expected, typed refusal (already registered, invalid code, ...).
	TypeBusiness
	// TypeValidation is a malformed or invalid request.
	TypeValidation
)

var typeNames = map[Type]string{
	TypeServer:     "ERROR_TYPE_SERVER",
	TypeBusiness:   "ERROR_TYPE_BUSINESS",
	TypeValidation: "ERROR_TYPE_VALIDATION",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code is a stable identifier mapped to an HTTP status.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeTooManyRequest
	CodeUnauthorized
	CodeForbidden
	CodeTimeout
)

var codeNames = map[Code]string{
	CodeInternal:       "ERROR_CODE_INTERNAL",
	CodeInvalidFormat:  "ERROR_CODE_INVALID_FORMAT",
	CodeInvalidInput:   "ERROR_CODE_INVALID_INPUT",
	CodeNotFound:       "ERROR_CODE_NOT_FOUND",
	CodeConflict:       "ERROR_CODE_CONFLICT",
	CodeTooManyRequest: "ERROR_CODE_TOO_MANY_REQUESTS",
	CodeUnauthorized:   "ERROR_CODE_UNAUTHORIZED",
	CodeForbidden:      "ERROR_CODE_FORBIDDEN",
	CodeTimeout:        "ERROR_CODE_TIMEOUT",
}

var codeStatus = map[Code]int{
	CodeInternal:       http.StatusInternalServerError,
	CodeInvalidFormat:  http.StatusBadRequest,
	CodeInvalidInput:   http.StatusUnprocessableEntity,
	CodeNotFound:       http.StatusNotFound,
	CodeConflict:       http.StatusConflict,
	CodeTooManyRequest: http.StatusTooManyRequests,
	CodeUnauthorized:   http.StatusUnauthorized,
	CodeForbidden:      http.StatusForbidden,
	CodeTimeout:        http.StatusRequestTimeout,
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return codeNames[CodeInternal]
}

// Error is the structured error returned by usecases.
//
// Server errors keep the underlying cause for logs while exposing a generic
// message. Business and validation errors carry a user facing message and,
// optionally, per field details.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	case e.errType == TypeValidation:
		return "Validation violation"
	case e.errType == TypeBusiness:
		return "Logical business not meet with requirement"
	default:
		return "Internal error"
	}
}

// String renders every attribute, for logs.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string {
	return e.msg
}

func (e *Error) Type() Type {
	return e.errType
}

func (e *Error) Code() Code {
	return e.code
}

func (e *Error) Fields() map[string]string {
	return e.fields
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) StatusCode() int {
	if s, ok := codeStatus[e.code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// With returns a copy of e with an extra detail field.
func (e *Error) With(key, value string) *Error {
	cp := *e
	cp.fields = make(map[string]string, len(e.fields)+1)
	for k, v := range e.fields {
		cp.fields[k] = v
	}
	cp.fields[key] = value
	return &cp
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// HasCode reports whether err is an *Error carrying code.
func HasCode(err error, code Code) bool {
	ge, ok := As(err)
	return ok && ge.code == code
}

// NewServer wraps an infrastructure failure.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewBusiness builds a typed business refusal.
func NewBusiness(msg string, code Code) *Error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput builds a validation error. When err is nil the remaining
// arguments are read as field/message pairs.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat builds a malformed request error.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}
