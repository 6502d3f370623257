package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEventNotFound is returned when an event does not exist or is hidden
	// from the caller. Private events deliberately map here rather than to a
	// 403 so their existence is not leaked.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventNotPublic is returned when attempting to RSVP to a private event.
	ErrEventNotPublic = errors.New("event is not public")
	// ErrRSVPClosed is returned when the event has already started.
	ErrRSVPClosed = errors.New("cannot RSVP to past events")
	// ErrEventFull is returned when the event reached its attendee cap.
	ErrEventFull = errors.New("event is at maximum capacity")
	// ErrDuplicateRSVP is returned when the email already RSVPed to the event.
	ErrDuplicateRSVP = errors.New("you have already RSVPed to this event")
	// ErrNameEmailRequired is returned when the RSVP is missing name or email.
	ErrNameEmailRequired = errors.New("name and email are required")
	// ErrInvalidEmail is returned when the RSVP email is malformed.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrStartDateNotFuture is returned when creating an event that starts in the past.
	ErrStartDateNotFuture = errors.New("start date must be in the future")
	// ErrEndBeforeStart is returned when the end date is not after the start date.
	ErrEndBeforeStart = errors.New("end date must be after start date")
	// ErrUserAlreadyExists is returned when signing up with a taken email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// crosses the boundary as a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrEventNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "EVENT_NOT_FOUND")
	case ErrEventNotPublic:
		return NewHTTPError(http.StatusForbidden, err.Error(), "EVENT_NOT_PUBLIC")
	case ErrRSVPClosed:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "RSVP_CLOSED")
	case ErrEventFull:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EVENT_FULL")
	case ErrDuplicateRSVP:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_RSVP")
	case ErrNameEmailRequired:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NAME_EMAIL_REQUIRED")
	case ErrInvalidEmail:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_EMAIL")
	case ErrStartDateNotFuture:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "START_DATE_NOT_FUTURE")
	case ErrEndBeforeStart:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "END_BEFORE_START")
	case ErrUserAlreadyExists:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_ALREADY_EXISTS")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
