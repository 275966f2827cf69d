package budget

import (
	"errors"
	"net/http"
)

// Error kinds returned by the service. Match them with errors.Is.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrBackend        = errors.New("backend error")
	ErrInternal       = errors.New("internal error")
)

// Client-facing messages. Store and runtime details never appear in them.
const (
	MsgDepartmentRequired = "Department is required"
	MsgInvalidBody        = "Invalid request body"
	MsgFetchFailed        = "Failed to fetch budget data"
	MsgInternal           = "Internal server error"
)

// QueryError is the structured error returned across the service boundary.
type QueryError struct {
	Kind    error
	Message string
	// Cause is kept for logging only.
	Cause error
}

func (e *QueryError) Error() string {
	return e.Message
}

func (e *QueryError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// InvalidRequest builds an ErrInvalidRequest error with a client message.
func InvalidRequest(msg string) *QueryError {
	return &QueryError{Kind: ErrInvalidRequest, Message: msg}
}

func backendError(cause error) *QueryError {
	return &QueryError{Kind: ErrBackend, Message: MsgFetchFailed, Cause: cause}
}

func internalError(cause error) *QueryError {
	return &QueryError{Kind: ErrInternal, Message: MsgInternal, Cause: cause}
}

// StatusCode maps a service error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Message
	}
	return MsgInternal
}
