package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/metrics"
)

// ErrSkip signals that an operation was skipped on purpose, for example
// because a share balance was below the protocol threshold. It is not a
// failure and does not abort the cycle.
var ErrSkip = errors.New("operation skipped")

// ClassifyError categorizes an operation error to determine how the engine
// should react. Returns (shouldRetry, errorType).
func ClassifyError(err error) (bool, string) {
	errStr := err.Error()

	// Network/RPC errors - retry is appropriate
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "timed out") ||
		strings.Contains(errStr, "no response") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "unexpected status code: 5") ||
		strings.Contains(errStr, "bad response") ||
		strings.Contains(errStr, "EOF") {
		return true, "network_error"
	}

	// RPC node state errors - retry as well
	if strings.Contains(errStr, "missing trie node") ||
		strings.Contains(errStr, "receipt not found") ||
		strings.Contains(errStr, "block not found") {
		return true, "node_state_error"
	}

	// Nonce-related errors - retry may help after nonce is corrected
	if strings.Contains(errStr, "nonce too low") ||
		strings.Contains(errStr, "nonce too high") ||
		strings.Contains(errStr, "replacement transaction underpriced") {
		return true, "nonce_error"
	}

	// Balance-related errors - permanent for this account
	if strings.Contains(errStr, "insufficient balance") ||
		strings.Contains(errStr, "insufficient funds") {
		return false, "insufficient_balance"
	}

	// Contract-related errors - permanent failures
	if strings.Contains(errStr, "execution reverted") ||
		strings.Contains(errStr, "reverted") ||
		strings.Contains(errStr, "invalid opcode") ||
		strings.Contains(errStr, "out of gas") {
		return false, "contract_error"
	}

	return false, "unknown_error"
}

// WithRetry runs an operation, retrying transient failures with a fixed
// delay. Permanent failures are returned immediately.
func WithRetry(
	ctx context.Context,
	log logger.Logger,
	maxRetries int,
	retryDelay time.Duration,
	protocol, op string,
	fn func(ctx context.Context) error,
) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrSkip) {
			return lastErr
		}

		retry, errorType := ClassifyError(lastErr)
		if !retry {
			metrics.PermanentErrors.WithLabelValues(protocol, errorType).Inc()
			return lastErr
		}

		if attempt < maxRetries {
			metrics.RetriesExecuted.WithLabelValues(protocol, errorType).Inc()
			log.Notice("%s %s failed with %s (attempt %d/%d), retrying in %s: %v",
				protocol, op, errorType, attempt, maxRetries, retryDelay, lastErr)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}

	return lastErr
}
