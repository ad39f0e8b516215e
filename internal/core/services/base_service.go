package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock returns the current time; nil means time.Now.
	Clock func() time.Time
}

// Now returns the current UTC time from the service clock.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Today returns the current UTC calendar date.
func (s *BaseService) Today() time.Time {
	return domain.DateOnly(s.Now())
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs an expected business rule rejection.
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// LogFailure logs rejected requests at Warn and everything else at Error.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isClientError(err) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

var clientErrors = []error{
	apperrors.ErrValidation,
	apperrors.ErrNotFound,
	apperrors.ErrDuplicate,
	apperrors.ErrInvalidAccount,
	apperrors.ErrUnbalancedEntry,
	apperrors.ErrPeriodLocked,
	apperrors.ErrPeriodOverlap,
	apperrors.ErrWrongStatus,
	apperrors.ErrCrossOrganization,
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ServiceOption configures the services built by this package.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	clock           func() time.Time
	defaultCashCode string
}

// WithClock overrides the time source, mostly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		o.clock = clock
	}
}

// WithDefaultCashAccountCode sets the account code used when a payment does
// not name its cash account.
func WithDefaultCashAccountCode(code string) ServiceOption {
	return func(o *serviceOptions) {
		if code != "" {
			o.defaultCashCode = code
		}
	}
}

func applyOptions(opts []ServiceOption) serviceOptions {
	o := serviceOptions{defaultCashCode: domain.DefaultCashAccountCode}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
