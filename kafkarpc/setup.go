package kafkarpc

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/aalemi-dev/msgrpc-lab/observability"
)

// Transport carries msgrpc requests and replies over Kafka topics.
// One Transport serves both roles: it produces requests for the rpc client
// side and consumes server topics via Serve. It is safe for concurrent use.
//
// Transport implements the rpc.Transport interface.
type Transport struct {
	// cfg stores the configuration for this transport
	cfg Config

	// observer provides optional observability hooks for tracking operations
	observer observability.Observer

	// logger provides optional logging for lifecycle and background operations
	logger Logger

	// writer produces request and reply messages; the topic is set per message
	writer *kafka.Writer

	// tlsConfig and mechanism are reused for every reader this transport opens
	tlsConfig *tls.Config
	mechanism sasl.Mechanism

	// serializer encodes envelopes before producing
	serializer Serializer

	// deserializer decodes envelopes after consuming
	deserializer Deserializer

	// mu protects pending and readers
	mu sync.RWMutex

	// pending maps correlation ids to the channels calls wait on
	pending map[string]chan *replyEnvelope

	// readers tracks every reader opened by Serve or the reply loop so
	// GracefulShutdown can close them
	readers []*kafka.Reader

	// replyOnce guards the lazy start of the reply consumer loop
	replyOnce sync.Once

	// shutdownSignal is closed when the transport is being shut down
	shutdownSignal chan struct{}

	closeShutdownOnce sync.Once
}

// NewTransport creates a Kafka-backed RPC transport with the provided
// configuration. The producer is created eagerly; the reply consumer starts
// lazily on the first Call, and server consumers start per Serve invocation.
//
// Example:
//
//	transport, err := kafkarpc.NewTransport(cfg)
//	if err != nil {
//		return err
//	}
//	defer transport.GracefulShutdown()
func NewTransport(cfg Config) (*Transport, error) {
	// Apply defaults
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = DefaultRequiredAcks
	}

	t := &Transport{
		cfg:            cfg,
		pending:        make(map[string]chan *replyEnvelope),
		shutdownSignal: make(chan struct{}),
		serializer:     getDefaultSerializer(cfg.DataType),
		deserializer:   getDefaultDeserializer(cfg.DataType),
	}

	var err error
	if cfg.TLS.Enabled {
		t.tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	if cfg.SASL.Enabled {
		t.mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	t.writer = createWriter(cfg, t.tlsConfig, t.mechanism, t)

	return t, nil
}

// WithObserver attaches an observer to the transport for tracking produce and
// consume operations. Returns the transport for chaining.
func (t *Transport) WithObserver(observer observability.Observer) *Transport {
	t.observer = observer
	return t
}

// WithLogger attaches a logger for lifecycle and background operation logging.
// Returns the transport for chaining.
func (t *Transport) WithLogger(logger Logger) *Transport {
	t.logger = logger
	return t
}

// WithSerializer replaces the envelope serializer.
// Returns the transport for chaining.
func (t *Transport) WithSerializer(s Serializer) *Transport {
	t.serializer = s
	return t
}

// WithDeserializer replaces the envelope deserializer.
// Returns the transport for chaining.
func (t *Transport) WithDeserializer(d Deserializer) *Transport {
	t.deserializer = d
	return t
}

// GracefulShutdown closes the transport's connections cleanly: the producer,
// every reader opened by Serve or the reply loop, and all in-flight calls,
// which fail with ErrTransportClosed. Errors during shutdown are logged but
// not propagated.
func (t *Transport) GracefulShutdown() {
	t.closeShutdownOnce.Do(func() {
		close(t.shutdownSignal)
	})

	t.mu.Lock()
	defer t.mu.Unlock()

	t.logInfo(context.Background(), "Closing Kafka RPC transport", nil)

	if t.writer != nil {
		if err := t.writer.Close(); err != nil {
			t.logWarn(context.Background(), "Failed to close Kafka writer", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	for _, reader := range t.readers {
		if err := reader.Close(); err != nil {
			t.logWarn(context.Background(), "Failed to close Kafka reader", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	t.readers = nil
}

// logInfo logs an informational message using the configured logger if available.
func (t *Transport) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if t.logger != nil {
		t.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

// logWarn logs a warning message using the configured logger if available.
func (t *Transport) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if t.logger != nil {
		t.logger.WarnWithContext(ctx, msg, nil, fields)
	}
}

// logError logs an error message using the configured logger if available.
// This is only used for errors in background goroutines that can't be
// returned to a caller.
func (t *Transport) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if t.logger != nil {
		t.logger.ErrorWithContext(ctx, msg, nil, fields)
	}
}

// observeOperation safely calls the observer if it's not nil.
func (t *Transport) observeOperation(ctx observability.OperationContext) {
	if t.observer != nil {
		t.observer.ObserveOperation(ctx)
	}
}

// createErrorLogger creates a Kafka error logger from the transport's logger.
func createErrorLogger(t *Transport) kafka.LoggerFunc {
	if t.logger != nil {
		return kafka.LoggerFunc(func(msg string, args ...interface{}) {
			formattedMsg := msg
			if len(args) > 0 {
				formattedMsg = fmt.Sprintf(msg, args...)
			}
			t.logger.ErrorWithContext(context.Background(), "Kafka internal error", nil, map[string]interface{}{
				"error": formattedMsg,
			})
		})
	}

	return kafka.LoggerFunc(func(msg string, args ...interface{}) {
		// No-op: kafka internal errors surface to callers instead
	})
}

// createWriter creates the shared producer. No topic is fixed on the writer;
// each message names its destination topic so one producer serves every
// target and reply topic.
func createWriter(cfg Config, tlsConfig *tls.Config, mechanism sasl.Mechanism, t *Transport) *kafka.Writer {
	writerConfig := kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: cfg.RequiredAcks,
		ErrorLogger:  createErrorLogger(t),
	}

	switch cfg.CompressionCodec {
	case "gzip":
		writerConfig.CompressionCodec = &compress.GzipCodec
	case "snappy":
		writerConfig.CompressionCodec = &compress.SnappyCodec
	case "lz4":
		writerConfig.CompressionCodec = &compress.Lz4Codec
	case "zstd":
		writerConfig.CompressionCodec = &compress.ZstdCodec
	}

	writerConfig.Dialer = &kafka.Dialer{
		TLS:           tlsConfig,
		SASLMechanism: mechanism,
	}

	writer := kafka.NewWriter(writerConfig)
	writer.AllowAutoTopicCreation = cfg.AllowAutoTopicCreation
	return writer
}

// createReader creates a reader for one topic and registers it for shutdown.
func (t *Transport) createReader(topic, groupID string) *kafka.Reader {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     t.cfg.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    DefaultMinBytes,
		MaxBytes:    DefaultMaxBytes,
		MaxWait:     t.cfg.MaxWait,
		ErrorLogger: createErrorLogger(t),
		Dialer: &kafka.Dialer{
			TLS:           t.tlsConfig,
			SASLMechanism: t.mechanism,
		},
	})

	t.mu.Lock()
	t.readers = append(t.readers, reader)
	t.mu.Unlock()

	return reader
}

// createTLSConfig creates a TLS configuration from the provided config
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// createSASLMechanism creates a SASL mechanism from the provided config
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
