// Package httperrors maps domain error codes onto HTTP status codes so the
// transport layer can translate failures without inspecting messages.
package httperrors

import (
	"errors"
	"net/http"

	dErrors "credshare/pkg/domain-errors"
)

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidAddress, dErrors.CodeInvalidInput, dErrors.CodeValidation, dErrors.CodeInvalidSignature:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotOwner, dErrors.CodeNotValidator, dErrors.CodeNotMinter:
		return http.StatusForbidden
	case dErrors.CodeMissingConsent, dErrors.CodeInvalidConsent:
		return http.StatusForbidden
	case dErrors.CodeNotRegistered, dErrors.CodeUserNotRegistered, dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeAlreadyRegistered, dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeInsufficientBalance, dErrors.CodeInsufficientAllowance:
		return http.StatusUnprocessableEntity
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// StatusFor extracts the domain code from err and returns the HTTP status
// plus the stable code string for the response envelope.
func StatusFor(err error) (int, string) {
	var e *dErrors.Error
	if errors.As(err, &e) {
		return ToHTTPStatus(e.Code), string(e.Code)
	}
	return http.StatusInternalServerError, string(dErrors.CodeInternal)
}
