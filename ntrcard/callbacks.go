package ntrcard

// Transition describes one status change.
type Transition struct {
	// Operation is the handshake step that caused the change:
	// "init", "init key1" or "init key2"
	Operation string

	From Status
	To   Status
}

// TransitionCallback is called after every status change. Implementations
// must not call back into the Card.
type TransitionCallback func(Transition)

// Logger is an optional logging interface that can be provided to the Card.
// This allows integration with any logging framework; NewLogrusLogger
// adapts logrus.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
