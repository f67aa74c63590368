package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures so adapters can map them without string matching.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindConfiguration   Kind = "configuration"
	KindProvider        Kind = "provider"
	KindProviderFailure Kind = "provider_failure"
	KindTimeout         Kind = "timeout"
	KindValidation      Kind = "validation"
)

// Error is the error type returned by the domain packages.
type Error struct {
	Kind    Kind
	Op      string
	Message string

	// Set for KindProvider only.
	StatusCode int
	Body       string

	Err error
}

func (e *Error) Error() string {
	var msg string
	switch {
	case e.Kind == KindProvider && e.StatusCode != 0:
		msg = fmt.Sprintf("status %d, body: %s", e.StatusCode, e.Body)
		if e.Message != "" {
			msg = e.Message + ": " + msg
		}
	case e.Message != "":
		msg = e.Message
	case e.Err != nil:
		msg = e.Err.Error()
	default:
		msg = string(e.Kind)
	}
	if e.Err != nil && e.Message != "" {
		msg += ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func InvalidInput(op, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Configuration(op, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Provider records a non-2xx upstream response. The body is kept verbatim.
func Provider(op string, statusCode int, body string) *Error {
	return &Error{Kind: KindProvider, Op: op, StatusCode: statusCode, Body: body}
}

func ProviderFailure(op, format string, args ...any) *Error {
	return &Error{Kind: KindProviderFailure, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Timeout(op, format string, args ...any) *Error {
	return &Error{Kind: KindTimeout, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the HTTP adapter responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindValidation:
		return http.StatusBadRequest
	case KindProvider, KindProviderFailure:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
