package dto

import (
	"net/http"

	"github.com/erp/billing/internal/domain/shared"
)

// API error codes. Domain errors keep their own specific code
// (INVOICE_NOT_FOUND, INVALID_TAX_RATE, ...); the generic ones are
// normalized onto this set.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation       = "ERR_VALIDATION"
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	ErrCodeBadRequest       = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON      = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"

	ErrCodeInvalidTransition  = "ERR_INVALID_TRANSITION"
	ErrCodeOrderNotAcceptable = "ERR_ORDER_NOT_ACCEPTABLE"
)

var codeStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	ErrCodeInvalidTransition:  http.StatusUnprocessableEntity,
	ErrCodeOrderNotAcceptable: http.StatusUnprocessableEntity,
}

var kindStatus = map[shared.ErrorKind]int{
	shared.KindValidation:        http.StatusBadRequest,
	shared.KindNotFound:          http.StatusNotFound,
	shared.KindInvalidTransition: http.StatusUnprocessableEntity,
	shared.KindConflict:          http.StatusConflict,
}

// domainCodes maps the generic domain codes onto API codes
var domainCodes = map[string]string{
	shared.ErrNotFound.Code:            ErrCodeNotFound,
	shared.ErrAlreadyExists.Code:       ErrCodeAlreadyExists,
	shared.ErrInvalidInput.Code:        ErrCodeInvalidInput,
	shared.ErrConcurrencyConflict.Code: ErrCodeConcurrencyConflict,
	shared.ErrDuplicateRequest.Code:    ErrCodeDuplicateRequest,
	shared.CodeInvalidTransition:       ErrCodeInvalidTransition,
	"ORDER_NOT_ACCEPTABLE":             ErrCodeOrderNotAcceptable,
}

// GetHTTPStatus returns the status for an API or generic domain code, 500
// when the code is unknown.
func GetHTTPStatus(code string) int {
	if status, ok := codeStatus[NormalizeErrorCode(code)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// StatusForKind returns the status for a domain error kind, 500 for anything else
func StatusForKind(kind shared.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodes[code]; ok {
		return mapped
	}
	return code
}

// ErrorWithStatus pairs an error response with the status of its code, for
// c.JSON and c.AbortWithStatusJSON.
func ErrorWithStatus(code, message, requestID string) (int, Response) {
	return GetHTTPStatus(code), NewErrorResponseWithRequestID(code, message, requestID)
}
