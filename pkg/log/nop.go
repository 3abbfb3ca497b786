package log

// NopLogger discards all messages. It is the default logger for schedulers
// constructed without WithLogger.
type NopLogger struct{}

// NewNop returns a Logger that discards everything.
func NewNop() NopLogger {
	return NopLogger{}
}

func (NopLogger) Trace(string, ...Field) {}
func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
