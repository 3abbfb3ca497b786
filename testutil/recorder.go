package testutil

import (
	"sync"

	"github.com/statomat/hsmx/pkg/log"
)

// LogEntry is one recorded log message.
type LogEntry struct {
	Level  string
	Msg    string
	Fields []log.Field
}

// LogRecorder implements log.Logger, capturing every message for
// deterministic assertions on the engine's trace output.
type LogRecorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogRecorder returns an empty recorder.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

func (r *LogRecorder) Trace(msg string, fields ...log.Field) { r.record("trace", msg, fields) }
func (r *LogRecorder) Debug(msg string, fields ...log.Field) { r.record("debug", msg, fields) }
func (r *LogRecorder) Info(msg string, fields ...log.Field)  { r.record("info", msg, fields) }
func (r *LogRecorder) Error(msg string, fields ...log.Field) { r.record("error", msg, fields) }

func (r *LogRecorder) record(level, msg string, fields []log.Field) {
	r.mu.Lock()
	r.entries = append(r.entries, LogEntry{Level: level, Msg: msg, Fields: fields})
	r.mu.Unlock()
}

// Entries returns a copy of all recorded entries in order.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns the recorded message strings in order.
func (r *LogRecorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Msg
	}
	return out
}
