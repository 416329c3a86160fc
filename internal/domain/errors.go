package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("room unavailable for requested dates")
	ErrConstraint        = errors.New("delete blocked by dependent rows")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Validation error codes surfaced to API clients.
const (
	CodeHotelNotFound     = "HotelNotFound"
	CodeRoomTypeNotFound  = "RoomTypeNotFound"
	CodeCheckInInPast     = "CheckInInPast"
	CodeInvalidDateRange  = "InvalidDateRange"
	CodeMissingField      = "MissingRequiredField"
	CodeRoomUnavailable   = "RoomUnavailable"
	CodeGuestsExceedLimit = "GuestCountExceedsCapacity"
	CodeTotalMismatch     = "TotalMismatch"
)

type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Code + ": " + e.Message }

func Invalid(code, msg string) *ValidationError {
	return &ValidationError{Code: code, Message: msg}
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
