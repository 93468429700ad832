package dto

import (
	"net/http"

	"github.com/printpay/receivables/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain errors keep their
// own codes (OVERPAYMENT, CUSTOMER_MISMATCH, ...).
const (
	ErrCodeInternal       = "ERR_INTERNAL"
	ErrCodeValidation     = "ERR_VALIDATION"
	ErrCodeInvalidJSON    = "ERR_INVALID_JSON"
	ErrCodeBadRequest     = "ERR_BAD_REQUEST"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeForbidden      = "ERR_FORBIDDEN"
	ErrCodeTenantRequired = "ERR_TENANT_REQUIRED"
	ErrCodeTooLarge       = "ERR_REQUEST_TOO_LARGE"
)

// kindStatus maps domain error kinds to HTTP status codes
var kindStatus = map[shared.ErrorKind]int{
	shared.KindValidation:        http.StatusBadRequest,
	shared.KindConfiguration:     http.StatusBadRequest,
	shared.KindNotFound:          http.StatusNotFound,
	shared.KindConflict:          http.StatusConflict,
	shared.KindInvalidTransition: http.StatusUnprocessableEntity,
	shared.KindBusinessRule:      http.StatusUnprocessableEntity,
}

// StatusForKind returns the HTTP status for a domain error kind.
// Unknown kinds are treated as server errors.
func StatusForKind(kind shared.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
