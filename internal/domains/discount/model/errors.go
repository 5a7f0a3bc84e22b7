package model

import (
	"errors"
	"net/http"
)

// Sentinel errors. Eligibility rejections are NOT errors; they come back
// as data on EligibilityResult. Errors here are either conflicts the
// caller must react to or plain infrastructure failures.
var (
	ErrDiscountNotFound = errors.New("discount not found")

	// Conflict failures (409). ErrConcurrentLimitExceeded means a parallel
	// redemption consumed the last use between evaluation and commit; the
	// caller treats it as a normal rejection and must not retry blindly.
	ErrDuplicateCode           = errors.New("discount code already exists")
	ErrConcurrentLimitExceeded = errors.New("discount usage limit reached concurrently")

	// Admin update guards
	ErrMaxUsesBelowCurrent = errors.New("max_total_uses cannot be lower than current_uses")
	ErrInvalidDateRange    = errors.New("valid_until must be after valid_from")
	ErrInvalidValue        = errors.New("percentage value must be between 0 and 100")
)

// RejectionReason enumerates why an eligibility check failed.
// The order of checks in the evaluator fixes which reason wins when
// several would apply.
type RejectionReason string

const (
	ReasonCodeNotFound       RejectionReason = "CODE_NOT_FOUND"
	ReasonCodeDisabled       RejectionReason = "CODE_DISABLED"
	ReasonNotYetActive       RejectionReason = "NOT_YET_ACTIVE"
	ReasonExpired            RejectionReason = "EXPIRED"
	ReasonGlobalLimitReached RejectionReason = "GLOBAL_LIMIT_REACHED"
	ReasonPerUserLimit       RejectionReason = "PER_USER_LIMIT_REACHED"
	ReasonBelowMinimum       RejectionReason = "BELOW_MINIMUM"
	ReasonOutOfScope         RejectionReason = "OUT_OF_SCOPE"
)

// rejectionMessages are the operator-facing texts rendered at the POS.
var rejectionMessages = map[RejectionReason]string{
	ReasonCodeNotFound:       "This code does not exist",
	ReasonCodeDisabled:       "This code has been disabled",
	ReasonNotYetActive:       "This code is not active yet",
	ReasonExpired:            "This code has expired",
	ReasonGlobalLimitReached: "This code has reached its usage limit",
	ReasonPerUserLimit:       "This member has already used this code the maximum number of times",
	ReasonBelowMinimum:       "The purchase amount does not meet the minimum for this code",
	ReasonOutOfScope:         "This code does not apply to this item",
}

// Message returns the human-readable text for a rejection reason.
func (r RejectionReason) Message() string {
	if msg, ok := rejectionMessages[r]; ok {
		return msg
	}
	return "This code cannot be applied"
}

// GetHTTPStatusCode maps domain errors to HTTP status codes for handlers.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrDiscountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateCode),
		errors.Is(err, ErrConcurrentLimitExceeded):
		return http.StatusConflict
	case errors.Is(err, ErrMaxUsesBelowCurrent),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrInvalidValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCode maps domain errors to stable machine-readable codes.
func GetErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrDiscountNotFound):
		return "DISCOUNT_NOT_FOUND"
	case errors.Is(err, ErrDuplicateCode):
		return "DUPLICATE_CODE"
	case errors.Is(err, ErrConcurrentLimitExceeded):
		return "CONCURRENT_LIMIT_EXCEEDED"
	case errors.Is(err, ErrMaxUsesBelowCurrent):
		return "MAX_USES_BELOW_CURRENT"
	case errors.Is(err, ErrInvalidDateRange):
		return "INVALID_DATE_RANGE"
	case errors.Is(err, ErrInvalidValue):
		return "INVALID_VALUE"
	default:
		return "INTERNAL_ERROR"
	}
}
