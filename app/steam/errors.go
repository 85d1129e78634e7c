package steam

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoCredential is issued by every operation when the client has no API key.
var ErrNoCredential = errors.New("steam api key is not configured")

// Kind classifies an operation failure.
type Kind int

// Failure kinds.
const (
	KindUpstream   Kind = iota // network failure or non-2xx response from Steam
	KindValidation             // missing or malformed input, no request was made
	KindNotFound               // Steam answered, but the requested data is absent or private
	KindConfig                 // the client is not configured
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConfig:
		return "config"
	default:
		return "upstream"
	}
}

// Error is returned by the client operations.
type Error struct {
	Kind    Kind
	Status  int // upstream HTTP status, zero if the request never completed
	Message string
	cause   error
}

// Error returns the error message.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Invalid makes a validation error with the formatted message.
func Invalid(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func upstream(status int, msg string, cause error) error {
	return &Error{Kind: KindUpstream, Status: status, Message: msg, cause: cause}
}

func notConfigured() error {
	return &Error{Kind: KindConfig, Message: ErrNoCredential.Error(), cause: ErrNoCredential}
}

// KindOf returns the kind of the error, errors not produced by the client
// are reported as upstream failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// IsNotFound checks whether the error reports absent data.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// StatusCode maps the error to an HTTP status code.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConfig:
		return http.StatusServiceUnavailable
	}

	if e.Status == http.StatusForbidden {
		return http.StatusForbidden // private profile or stats
	}
	return http.StatusInternalServerError
}
