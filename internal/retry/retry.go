package retry

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"time"

	apperrors "github.com/asset-disposition/internal/errors"
	"github.com/asset-disposition/internal/logging"
)

// Config configures retry behavior for storage lookups
type Config struct {
	MaxAttempts  int           // Maximum number of attempts including the first
	InitialDelay time.Duration // Delay before the first retry
	MaxDelay     time.Duration // Cap on the backoff delay
	Multiplier   float64       // Multiplier for exponential backoff
}

// DefaultConfig returns the retry configuration used for database and cache
// lookups during model runs. Pattern: 100ms, 200ms, 400ms, capped at 2s.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}

// Result contains information about the retry operation
type Result struct {
	Attempts      int           `json:"attempts"`
	Success       bool          `json:"success"`
	TotalDuration time.Duration `json:"total_duration"`
	LastError     error         `json:"last_error,omitempty"`
}

// Func is a function that can be retried
type Func func(ctx context.Context, attempt int) error

// WithExponentialBackoff executes fn with exponential backoff. Errors the
// application classifies as non-retryable (validation, missing data) stop
// the loop immediately.
func WithExponentialBackoff(ctx context.Context, config *Config, fn Func) *Result {
	logger := logging.FromContext(ctx)
	startTime := time.Now()

	result := &Result{}

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		result.Attempts = attempt

		err := fn(ctx, attempt)
		if err == nil {
			result.Success = true
			result.TotalDuration = time.Since(startTime)

			if attempt > 1 {
				logger.WithFields(map[string]interface{}{
					"attempts":       attempt,
					"total_duration": result.TotalDuration,
				}).Info("Operation succeeded after retry")
			}

			return result
		}

		result.LastError = err

		if !shouldRetry(err) {
			break
		}

		if attempt >= config.MaxAttempts {
			logger.WithFields(map[string]interface{}{
				"attempts":       attempt,
				"total_duration": time.Since(startTime),
				"error":          err.Error(),
			}).Error("Operation failed after max retry attempts")
			break
		}

		if ctx.Err() != nil {
			result.LastError = ctx.Err()
			break
		}

		delay := calculateDelay(config, attempt)

		logger.WithFields(map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": config.MaxAttempts,
			"delay":        delay,
			"error":        err.Error(),
		}).Warn("Operation failed, retrying with exponential backoff")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			result.LastError = ctx.Err()
			result.TotalDuration = time.Since(startTime)
			return result
		}
	}

	result.TotalDuration = time.Since(startTime)
	return result
}

// shouldRetry treats unclassified errors as transient; classified errors
// follow the application's retryability rules
func shouldRetry(err error) bool {
	var catErr *apperrors.CategorizedError
	if stderrors.As(err, &catErr) {
		return apperrors.IsRetryable(catErr)
	}
	return true
}

// calculateDelay returns initialDelay * multiplier^(attempt-1), capped
func calculateDelay(config *Config, attempt int) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}

// Do runs fn with the default configuration and collapses the result into
// a single error
func Do(ctx context.Context, fn Func) error {
	result := WithExponentialBackoff(ctx, DefaultConfig(), fn)
	if !result.Success {
		return fmt.Errorf("operation failed after %d attempts: %w", result.Attempts, result.LastError)
	}
	return nil
}
