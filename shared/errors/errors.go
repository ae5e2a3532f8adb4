package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure by where it came from.
type Kind int

const (
	// KindBackend is a validation or business failure reported by the backend.
	// It is the zero value, so a bare ErrorWithStatusCode is a backend failure.
	KindBackend Kind = iota
	// KindTransport means the backend could not be reached or answered garbage.
	KindTransport
	// KindUnauthorized means the credential is missing or was rejected.
	KindUnauthorized
	// KindInvalidInput is rejected locally before any request is made.
	KindInvalidInput
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Kind       Kind
	Err        error
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Unwrap() error {
	return e.Err
}

func Transport(message string, err error) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadGateway, Kind: KindTransport, Err: err}
}

func InvalidInput(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest, Kind: KindInvalidInput}
}

func Unauthorized(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized}
}

func KindOf(err error) (Kind, bool) {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsTransport(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindTransport
}

func IsUnauthorized(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindUnauthorized
}

func IsInvalidInput(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindInvalidInput
}

// StatusOf returns the status code carried by err, or 500.
func StatusOf(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) && e.StatusCode != 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the human readable part of err, falling back when err carries none.
func Message(err error, fallback string) string {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
