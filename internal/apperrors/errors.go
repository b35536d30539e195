package apperrors

import "fmt"

// ErrTransport represents a connection level failure (DNS, refused, timeout) for one endpoint.
type ErrTransport struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ErrTransport) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ErrTransport) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrTransport) Is(target error) bool {
	_, ok := target.(*ErrTransport)
	return ok
}

// ErrHTTPStatus is returned when an endpoint answers with a status code >= 400.
type ErrHTTPStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrHTTPStatus) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("status code %d is above 400", e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrHTTPStatus) Is(target error) bool {
	_, ok := target.(*ErrHTTPStatus)
	return ok
}

// ErrEndpointsExhausted is returned once every endpoint of the fallback chain failed.
// Err holds the last underlying failure.
type ErrEndpointsExhausted struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *ErrEndpointsExhausted) Error() string {
	return fmt.Sprintf("all %d endpoints failed, last error: %v", e.Attempts, e.Err)
}

// Unwrap returns the last endpoint failure.
func (e *ErrEndpointsExhausted) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrEndpointsExhausted) Is(target error) bool {
	_, ok := target.(*ErrEndpointsExhausted)
	return ok
}

// ErrRemote is returned when a reachable endpoint reports an application level error
// or returns no data.
type ErrRemote struct {
	Message string
}

// Error implements the error interface.
func (e *ErrRemote) Error() string {
	return fmt.Sprintf("remote error: %s", e.Message)
}

// Is allows for error checking with errors.Is().
func (e *ErrRemote) Is(target error) bool {
	_, ok := target.(*ErrRemote)
	return ok
}

// NewRemoteError creates a new ErrRemote.
func NewRemoteError(message string) *ErrRemote {
	return &ErrRemote{Message: message}
}

// ErrInvalidRequest is returned for caller input that cannot be turned into a request.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ErrInvalidRequest) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidRequest) Is(target error) bool {
	_, ok := target.(*ErrInvalidRequest)
	return ok
}

// NewInvalidRequestError creates a new ErrInvalidRequest.
func NewInvalidRequestError(field, reason string) *ErrInvalidRequest {
	return &ErrInvalidRequest{
		Field:  field,
		Reason: reason,
	}
}
