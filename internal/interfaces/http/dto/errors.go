package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Access error codes
const (
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInvalidQuantity is used when a quantity is negative or malformed
	ErrCodeInvalidQuantity = "ERR_INVALID_QUANTITY"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Domain-specific codes keep their original names and are mapped here
// directly; only the generic codes are normalized to ERR_* form.
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidQuantity:  http.StatusBadRequest,

	"INVALID_PRODUCT":            http.StatusBadRequest,
	"INVALID_PRICE":              http.StatusBadRequest,
	"INVALID_LEAD_TIME":          http.StatusBadRequest,
	"INVALID_MOVE_DIRECTION":     http.StatusBadRequest,
	"PRODUCT_NAME_REQUIRED":      http.StatusBadRequest,
	"PRODUCT_CODE_REQUIRED":      http.StatusBadRequest,
	"STORE_NAME_REQUIRED":        http.StatusBadRequest,
	"VENDOR_NAME_REQUIRED":       http.StatusBadRequest,
	"EXTERNAL_ORDER_ID_REQUIRED": http.StatusBadRequest,

	// Access errors -> 403 Forbidden
	ErrCodeForbidden:          http.StatusForbidden,
	"STOCK_ACCESS_DENIED":     http.StatusForbidden,
	"PRODUCT_ACCESS_DENIED":   http.StatusForbidden,
	"VENDOR_ACCESS_DENIED":    http.StatusForbidden,
	"ORDER_ACCESS_DENIED":     http.StatusForbidden,
	"RECEIPT_ACCESS_DENIED":   http.StatusForbidden,
	"WHOLESALE_ACCESS_DENIED": http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	"RECEIPT_ALREADY_EXISTS":   http.StatusConflict,
	"DUPLICATE_EXTERNAL_ORDER": http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	"INCOMING_STOCK_NOT_ENOUGH":  http.StatusUnprocessableEntity,
	"WAREHOUSE_STOCK_NOT_ENOUGH": http.StatusUnprocessableEntity,
	"DISPLAY_STOCK_NOT_ENOUGH":   http.StatusUnprocessableEntity,
	"OUTGOING_STOCK_NOT_ENOUGH":  http.StatusUnprocessableEntity,
	"ORDER_ITEM_EMPTY":           http.StatusUnprocessableEntity,
	"WHOLESALE_ITEM_EMPTY":       http.StatusUnprocessableEntity,
	"ORDER_ALREADY_DELIVERED":    http.StatusUnprocessableEntity,
	"ORDER_ALREADY_CANCELED":     http.StatusUnprocessableEntity,
	"RECEIPT_ALREADY_CONFIRMED":  http.StatusUnprocessableEntity,
	"RECEIPT_ALREADY_CANCELED":   http.StatusUnprocessableEntity,
	"RECEIPT_CREATION_NOT_ALLOWED_FROM_ORDER": http.StatusUnprocessableEntity,
	"WHOLESALE_ALREADY_CONFIRMED":             http.StatusUnprocessableEntity,
	"WHOLESALE_ALREADY_CANCELED":              http.StatusUnprocessableEntity,
	"WHOLESALE_PAYMENT_PENDING":               http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps shared domain error codes to the
// standardized ERR_* form used on the wire
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_QUANTITY":     ErrCodeInvalidQuantity,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a shared domain error code to the standardized
// format. Domain-specific codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
