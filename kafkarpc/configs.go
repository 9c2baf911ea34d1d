package kafkarpc

import (
	"context"
	"time"
)

// Config defines the configuration for the Kafka RPC transport.
type Config struct {
	// Brokers is a list of Kafka broker addresses
	Brokers []string

	// ReplyTopic is the topic this process consumes call replies from.
	// Every caller needs its own reply topic; sharing one between processes
	// makes them steal each other's replies. Required for Call, unused for
	// pure Cast or server-only processes.
	ReplyTopic string

	// GroupID is the consumer group ID used by Serve when consuming a
	// server's topic. Multiple processes in the same group share the load.
	GroupID string

	// CallTimeout bounds how long Call waits for a reply
	// Default: 30s
	CallTimeout time.Duration

	// WriteTimeout is the timeout for produce operations
	// Default: 10s
	WriteTimeout time.Duration

	// MaxWait is the maximum time a reader waits for new messages
	// Default: 10s
	MaxWait time.Duration

	// RequiredAcks determines how many replica acknowledgments to wait for
	// Options:
	//   RequireNone (0): fire-and-forget
	//   RequireOne (1): wait for leader only
	//   RequireAll (-1): wait for all in-sync replicas
	// Default: RequireAll (-1)
	RequiredAcks int

	// MaxAttempts is the maximum number of attempts to deliver a message
	// Default: 10
	MaxAttempts int

	// CompressionCodec specifies the compression algorithm to use
	// Options: "" (no compression), gzip, snappy, lz4, zstd
	// Default: ""
	CompressionCodec string

	// AllowAutoTopicCreation determines whether to allow automatic topic creation
	// Default: false
	AllowAutoTopicCreation bool

	// TLS contains TLS/SSL configuration
	TLS TLSConfig

	// SASL contains SASL authentication configuration
	SASL SASLConfig

	// DataType selects the default envelope serializer when none is injected
	// Options: "json" (default), "string", "gob", "bytes"
	DataType string
}

// Logger is an interface that matches the logger.Logger context-aware subset.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool

	// CACertPath is the file path to the CA certificate for verifying the broker
	CACertPath string

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string

	// InsecureSkipVerify controls whether to skip verification of the server's certificate
	// WARNING: Setting this to true is insecure and should only be used in testing
	InsecureSkipVerify bool
}

// SASLConfig contains SASL authentication configuration parameters.
type SASLConfig struct {
	// Enabled determines whether to use SASL authentication
	Enabled bool

	// Mechanism specifies the SASL mechanism to use
	// Options: "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
	Mechanism string

	// Username is the SASL username
	Username string

	// Password is the SASL password
	Password string //nolint:gosec
}

// Default values for configuration
const (
	DefaultCallTimeout  = 30 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultMaxWait      = 10 * time.Second
	DefaultMaxAttempts  = 10
	DefaultRequiredAcks = -1 // WaitForAll
	DefaultMinBytes     = 1
	DefaultMaxBytes     = 10e6 // 10MB

	// Producer acknowledgment modes
	RequireNone = 0  // Fire-and-forget (no acknowledgment)
	RequireOne  = 1  // Wait for leader only
	RequireAll  = -1 // Wait for all in-sync replicas (most durable)
)
