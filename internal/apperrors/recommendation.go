package apperrors

import (
	"errors"
	"net/http"
)

// CatalogUnavailableError indicates the catalog snapshot has not been
// loaded yet. The snapshot is not loaded on demand; a feed requested before
// the first successful Reload gets this error.
type CatalogUnavailableError struct {
	baseError
}

// NewCatalogUnavailableError creates a new CatalogUnavailableError.
func NewCatalogUnavailableError(message string, cause error) *CatalogUnavailableError {
	return &CatalogUnavailableError{
		baseError: baseError{
			message:    message,
			code:       CodeCatalogUnavailable,
			httpStatus: http.StatusServiceUnavailable,
			cause:      cause,
		},
	}
}

// IsCatalogUnavailable checks if an error is a CatalogUnavailableError.
func IsCatalogUnavailable(err error) bool {
	var e *CatalogUnavailableError
	return errors.As(err, &e)
}

// PoolExhaustedError indicates a candidate pool had no eligible item at a
// slot. It is recoverable: callers fall back to EXPLORE or a shorter feed.
type PoolExhaustedError struct {
	baseError
	SlotType string
}

// NewPoolExhaustedError creates a new PoolExhaustedError.
func NewPoolExhaustedError(slotType string) *PoolExhaustedError {
	return &PoolExhaustedError{
		baseError: baseError{
			message:    "candidate pool exhausted for slot " + slotType,
			code:       CodePoolExhausted,
			httpStatus: http.StatusOK,
		},
		SlotType: slotType,
	}
}

// IsPoolExhausted checks if an error is a PoolExhaustedError.
func IsPoolExhausted(err error) bool {
	var e *PoolExhaustedError
	return errors.As(err, &e)
}

// BanditDegenerateError indicates a bandit's ridge matrix could not be
// inverted. Callers downgrade to score-only ranking for the request.
type BanditDegenerateError struct {
	baseError
	Category string
}

// NewBanditDegenerateError creates a new BanditDegenerateError.
func NewBanditDegenerateError(category string, cause error) *BanditDegenerateError {
	return &BanditDegenerateError{
		baseError: baseError{
			message:    "bandit matrix inversion failed for category " + category,
			code:       CodeBanditDegenerate,
			httpStatus: http.StatusOK,
			cause:      cause,
		},
		Category: category,
	}
}

// IsBanditDegenerate checks if an error is a BanditDegenerateError.
func IsBanditDegenerate(err error) bool {
	var e *BanditDegenerateError
	return errors.As(err, &e)
}

// ActivityStoreUnavailableError indicates the cache or relational write
// path used by activity tracking/draining failed. It is always recovered
// from by logging and continuing; it never fails a feed response.
type ActivityStoreUnavailableError struct {
	baseError
}

// NewActivityStoreUnavailableError creates a new ActivityStoreUnavailableError.
func NewActivityStoreUnavailableError(message string, cause error) *ActivityStoreUnavailableError {
	return &ActivityStoreUnavailableError{
		baseError: baseError{
			message:    message,
			code:       CodeActivityStoreUnavailable,
			httpStatus: http.StatusOK,
			cause:      cause,
		},
	}
}

// IsActivityStoreUnavailable checks if an error is an ActivityStoreUnavailableError.
func IsActivityStoreUnavailable(err error) bool {
	var e *ActivityStoreUnavailableError
	return errors.As(err, &e)
}

// FatalError marks a failure that must abort the operation entirely,
// currently only catalog (re)load failure. The previous snapshot, if any,
// is left in place by the caller; this error only signals "do not swap".
type FatalError struct {
	baseError
}

// NewFatalError creates a new FatalError.
func NewFatalError(message string, cause error) *FatalError {
	return &FatalError{
		baseError: baseError{
			message:    message,
			code:       CodeFatal,
			httpStatus: http.StatusInternalServerError,
			cause:      cause,
		},
	}
}

// IsFatal checks if an error is a FatalError.
func IsFatal(err error) bool {
	var e *FatalError
	return errors.As(err, &e)
}
