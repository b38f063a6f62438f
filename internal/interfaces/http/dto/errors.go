package dto

import "net/http"

// Transport-level error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// domainErrorStatus maps domain error codes to HTTP status codes.
// Codes missing from the map fall back to 422 so a new domain rule
// never surfaces as a 500.
var domainErrorStatus = map[string]int{
	// Transport
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// Shared sentinels
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,

	// Identity
	"EMAIL_TAKEN":         http.StatusConflict,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"PROFILE_NOT_FOUND":   http.StatusNotFound,

	// Lookups
	"BUSINESS_NOT_FOUND": http.StatusNotFound,
	"SUPPLIER_NOT_FOUND": http.StatusNotFound,
	"INVOICE_NOT_FOUND":  http.StatusNotFound,
	"PAYMENT_NOT_FOUND":  http.StatusNotFound,
	"SPLIT_NOT_FOUND":    http.StatusNotFound,
	"GOAL_NOT_FOUND":     http.StatusNotFound,
	"ENTRY_NOT_FOUND":    http.StatusNotFound,
	"SOURCE_NOT_FOUND":   http.StatusNotFound,
	"PRODUCT_NOT_FOUND":  http.StatusNotFound,

	// Uniqueness
	"DUPLICATE_NUMBER":  http.StatusConflict,
	"DUPLICATE_WEEKDAY": http.StatusConflict,
	"DUPLICATE_SOURCE":  http.StatusConflict,
	"DUPLICATE_PRODUCT": http.StatusConflict,
}

// GetHTTPStatus resolves the status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := domainErrorStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
