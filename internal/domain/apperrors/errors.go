package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// The error taxonomy every endpoint maps onto an HTTP status:
// authentication 401, validation/extraction 400, everything upstream or
// storage related 500. Handlers call HTTPStatus instead of switching on
// error types themselves.

var (
	ErrAuthentication = errors.New("invalid or missing credential")
	ErrConfiguration  = errors.New("service misconfigured")
)

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

type ExtractionKind string

const (
	EmptyContent    ExtractionKind = "empty_content"
	ParseFailure    ExtractionKind = "parse_failure"
	UnsupportedType ExtractionKind = "unsupported_type"
	FetchFailure    ExtractionKind = "fetch_failure"
)

// ExtractionError carries a human-readable cause because the dashboard upload
// form shows it to the user verbatim.
type ExtractionError struct {
	Kind ExtractionKind
	Msg  string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func Extraction(kind ExtractionKind, msg string) error {
	return &ExtractionError{Kind: kind, Msg: msg}
}

func ExtractionWrap(kind ExtractionKind, msg string, err error) error {
	return &ExtractionError{Kind: kind, Msg: msg, Err: err}
}

type ServiceError struct {
	Service string //"embedding" or "generation"
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func Embedding(err error) error {
	return &ServiceError{Service: "embedding", Err: err}
}

func Generation(err error) error {
	return &ServiceError{Service: "generation", Err: err}
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// HTTPStatus maps any error from the pipeline to the response status.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var xe *ExtractionError

	switch {
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.As(err, &ve), errors.As(err, &xe):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
