package logger

// Log level names accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config defines the configuration for the logger.
type Config struct {
	// Level is the minimum level that will be emitted.
	// One of the Debug/Info/Warning/Error constants; anything else
	// falls back to Info.
	Level string

	// ServiceName is attached to every log entry as the "service" field.
	ServiceName string

	// CallerSkip adjusts how many wrapper frames Zap skips when resolving
	// the caller annotation. Defaults to 1, which is correct when calling
	// the LoggerClient methods directly. Set to 2 when wrapping the logger
	// in another layer.
	CallerSkip int

	// EnableTracing makes the *WithContext methods include trace_id and
	// span_id fields extracted from the active span, when one exists.
	EnableTracing bool
}
