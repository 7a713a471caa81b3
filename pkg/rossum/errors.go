package rossum

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when the service answers with a status other than the
// one the operation expects.
type APIError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	URL        string `json:"url"         yaml:"url"`
	Body       string `json:"body"        yaml:"body"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("Invalid response [%s]: %s", e.URL, e.Body)
}

// MalformedResponseError is returned when a response body that should be JSON
// cannot be decoded.
type MalformedResponseError struct {
	URL  string
	Body string
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("Invalid JSON [%s]: %s", e.URL, e.Body)
}

// ValidationError reports caller input that was rejected before any request
// was sent.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Static errors for err113 compliance.
var (
	ErrInvalidCredentials     = errors.New("Login failed with the provided credentials.") //nolint:stylecheck // user-facing message
	ErrSideloadSpecifiedTwice = errors.New("sideloading cannot be specified both in query and sideloads")
	ErrInvalidSideload        = errors.New("invalid sideload")
	ErrPollTimeout            = errors.New("timed out waiting for the object to reach the requested state")
	ErrConfigRequired         = errors.New("config is required")
	ErrURLRequired            = errors.New("API URL is required")
	ErrCredentialsRequired    = errors.New("username and password or a token are required")
	ErrUnsupportedMethod      = errors.New("unsupported HTTP method")
	ErrNotLoggedIn            = errors.New("not logged in")
	ErrUnexpectedDeleteError  = errors.New("unexpected error during delete")
	ErrNoOrganization         = errors.New("the user has no organization")
)

// IsValidationError checks if the error was raised by input validation.
func IsValidationError(err error) bool {
	valErr := &ValidationError{}

	return errors.As(err, &valErr) || errors.Is(err, ErrSideloadSpecifiedTwice)
}

// IsAPIError checks if the error carries an unexpected HTTP status.
func IsAPIError(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrInvalidCredentials) {
		return true
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}
