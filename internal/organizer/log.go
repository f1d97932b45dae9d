package organizer

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogLevel classifies processing log entries.
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
	LevelSuccess LogLevel = "success"
)

// LogEntry is one line of a run's processing log. The log is the sole
// observability artifact of a run: a plan can come back "successful" while
// covering fewer bookmarks than requested, and only the log says so.
type LogEntry struct {
	ID        string         `json:"id"`
	Level     LogLevel       `json:"level"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// runLog is an append-only, concurrency-safe log. Multiple in-flight batch
// completions append to it; append order across batches is unspecified.
type runLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func newRunLog() *runLog {
	return &runLog{}
}

func (l *runLog) append(level LogLevel, message string, metadata map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, LogEntry{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
}

// snapshot returns a copy of the entries accumulated so far.
func (l *runLog) snapshot() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *runLog) countLevel(level LogLevel) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
