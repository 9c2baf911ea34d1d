package kafkarpc

import (
	"errors"
	"strings"
)

// Standardized transport errors abstracting the underlying Kafka details.
var (
	// ErrConnectionFailed is returned when connection to Kafka cannot be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrConnectionLost is returned when connection to Kafka is lost
	ErrConnectionLost = errors.New("connection lost")

	// ErrBrokerNotAvailable is returned when broker is not available
	ErrBrokerNotAvailable = errors.New("broker not available")

	// ErrAuthenticationFailed is returned when authentication fails
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAuthorizationFailed is returned when authorization fails
	ErrAuthorizationFailed = errors.New("authorization failed")

	// ErrTopicNotFound is returned when topic doesn't exist
	ErrTopicNotFound = errors.New("topic not found")

	// ErrMessageTooLarge is returned when message exceeds size limits
	ErrMessageTooLarge = errors.New("message too large")

	// ErrRequestTimedOut is returned when a broker request times out
	ErrRequestTimedOut = errors.New("request timed out")

	// ErrNetworkError is returned for network-related errors
	ErrNetworkError = errors.New("network error")

	// ErrWriterNotInitialized is returned when the producer is not initialized
	ErrWriterNotInitialized = errors.New("writer not initialized")

	// ErrNoReplyTopic is returned by Call when no reply topic is configured
	ErrNoReplyTopic = errors.New("no reply topic configured")

	// ErrCallTimeout is returned when a call gets no reply within CallTimeout
	ErrCallTimeout = errors.New("call timed out waiting for reply")

	// ErrTransportClosed is returned for operations on a shut-down transport
	ErrTransportClosed = errors.New("transport is closed")
)

// RemoteError carries an endpoint error message across the Kafka hop.
// The original error value cannot cross a process boundary; only its text
// survives.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// TranslateError converts Kafka-specific errors into the standardized errors
// above. Errors that match no known pattern are returned unchanged.
func (t *Transport) TranslateError(err error) error {
	if err == nil {
		return nil
	}
	return translateByErrorMessage(strings.ToLower(err.Error()), err)
}

// translateByErrorMessage translates errors based on error message patterns
func translateByErrorMessage(errMsg string, originalErr error) error {
	switch {
	case strings.Contains(errMsg, "connection refused"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "connection reset"),
		strings.Contains(errMsg, "connection closed"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "broker not available"):
		return ErrBrokerNotAvailable
	case strings.Contains(errMsg, "sasl authentication failed"),
		strings.Contains(errMsg, "authentication failed"):
		return ErrAuthenticationFailed
	case strings.Contains(errMsg, "authorization failed"):
		return ErrAuthorizationFailed
	case strings.Contains(errMsg, "unknown topic"),
		strings.Contains(errMsg, "topic not found"):
		return ErrTopicNotFound
	case strings.Contains(errMsg, "message too large"),
		strings.Contains(errMsg, "record too large"):
		return ErrMessageTooLarge
	case strings.Contains(errMsg, "request timed out"),
		strings.Contains(errMsg, "timeout"):
		return ErrRequestTimedOut
	case strings.Contains(errMsg, "network"),
		strings.Contains(errMsg, "dial"),
		strings.Contains(errMsg, "i/o timeout"):
		return ErrNetworkError
	default:
		return originalErr
	}
}

// IsRetryableError returns true if the error is retryable
func (t *Transport) IsRetryableError(err error) bool {
	switch {
	case errors.Is(err, ErrConnectionFailed),
		errors.Is(err, ErrConnectionLost),
		errors.Is(err, ErrBrokerNotAvailable),
		errors.Is(err, ErrRequestTimedOut),
		errors.Is(err, ErrNetworkError):
		return true
	default:
		return false
	}
}

// IsPermanentError returns true if the error is permanent and should not be retried
func (t *Transport) IsPermanentError(err error) bool {
	switch {
	case errors.Is(err, ErrAuthenticationFailed),
		errors.Is(err, ErrAuthorizationFailed),
		errors.Is(err, ErrTopicNotFound),
		errors.Is(err, ErrMessageTooLarge),
		errors.Is(err, ErrNoReplyTopic),
		errors.Is(err, ErrTransportClosed):
		return true
	default:
		return false
	}
}

// IsAuthenticationError returns true if the error is authentication-related
func (t *Transport) IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, ErrAuthorizationFailed)
}
