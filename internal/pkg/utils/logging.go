package utils

import (
	"errors"
	"time"

	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// LogOperation runs fn and logs its outcome with the operation name, the
// version it produced and how long it took.
func LogOperation(logger *zap.Logger, operation string, fn func() (uint64, error)) error {
	start := time.Now()

	logger.Debug("Operation started",
		zap.String(constvars.LoggingOperationKey, operation),
	)

	version, err := fn()

	duration := time.Since(start)

	if err != nil {
		logger.Warn("Operation rejected",
			zap.String(constvars.LoggingOperationKey, operation),
			zap.Uint64(constvars.LoggingVersionKey, version),
			zap.Duration(constvars.LoggingDurationKey, duration),
			zap.Bool(constvars.LoggingSuccessKey, false),
			zap.String(constvars.LoggingErrorCodeKey, ErrorCode(err)),
			zap.Error(err),
		)
		return err
	}

	logger.Info("Operation completed",
		zap.String(constvars.LoggingOperationKey, operation),
		zap.Uint64(constvars.LoggingVersionKey, version),
		zap.Duration(constvars.LoggingDurationKey, duration),
		zap.Bool(constvars.LoggingSuccessKey, true),
	)

	return nil
}

// ErrorCode extracts the code of a CustomError, or UNKNOWN for anything else.
func ErrorCode(err error) string {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return constvars.ErrCodeUnknown
}
