package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the request carried no valid identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal is returned when a store or programming failure is hidden from the caller.
var ErrInternal = errors.New("internal error")

// Ledger specific error kinds.
var (
	// ErrInvalidAccount: the account is a header, inactive, of the wrong type for the operation, or unknown.
	ErrInvalidAccount = errors.New("invalid account")
	// ErrUnbalancedEntry: total debits differ from total credits at post time.
	ErrUnbalancedEntry = errors.New("journal entry is unbalanced")
	// ErrPeriodLocked: the entry date falls inside a locked accounting period.
	ErrPeriodLocked = errors.New("accounting period is locked")
	// ErrPeriodOverlap: a new period intersects an existing one.
	ErrPeriodOverlap = errors.New("accounting period overlaps an existing period")
	// ErrWrongStatus: the operation requires a different prior status.
	ErrWrongStatus = errors.New("journal entry is in the wrong status for this operation")
	// ErrCrossOrganization: a reference crosses the organization boundary.
	ErrCrossOrganization = errors.New("cross-organization reference")
)

// PeriodLockedError carries the range of the locked period that rejected a posting.
type PeriodLockedError struct {
	PeriodID string
	Start    time.Time
	End      time.Time
}

func (e *PeriodLockedError) Error() string {
	return fmt.Sprintf("%s: %s to %s", ErrPeriodLocked.Error(), e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// Is lets errors.Is(err, ErrPeriodLocked) match.
func (e *PeriodLockedError) Is(target error) bool {
	return target == ErrPeriodLocked
}

// AppError wraps a lower level failure with an HTTP-ish status code and a safe message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
