package errors

import (
	"errors"
)

const msgUnexpected = "An unexpected error occurred"

var statusByErrorType = map[string]int{
	ErrorTypeNotFound:            StatusNotFound,
	ErrorTypeInvalidRequest:      StatusBadRequest,
	ErrorTypeConflict:            StatusConflict,
	ErrorTypeUnauthorized:        StatusUnauthorized,
	ErrorTypeForbidden:           StatusForbidden,
	ErrorTypeTooManyRequests:     StatusTooManyRequests,
	ErrorTypeRateLimitExceeded:   StatusTooManyRequests,
	ErrorTypeRequestTimeout:      StatusRequestTimeout,
	ErrorTypeMethodNotAllowed:    StatusMethodNotAllowed,
	ErrorTypeNoContent:           StatusNoContent,
	ErrorTypeServiceUnavailable:  StatusServiceUnavailable,
	ErrorTypeUpstream:            StatusBadGateway,
	ErrorTypeDatabaseError:       StatusInternalServerError,
	ErrorTypeInternalServerError: StatusInternalServerError,
}

// HTTPStatusCode maps an AppError type to its status. Anything else is a 500.
func HTTPStatusCode(err error) int {
	if status, ok := statusByErrorType[GetErrorType(err)]; ok {
		return status
	}
	return StatusInternalServerError
}

// GetHumanReadableMessage returns the AppError message. Other errors may carry driver or
// transport detail and are replaced by a generic message.
func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return msgUnexpected
}
