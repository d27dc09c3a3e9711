package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger appends timestamped lines to the trace log file so planner
// traces survive the run. Lines can also be mirrored to another writer.
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	mirror io.Writer
	now    func() time.Time
}

// New creates (or reuses) the log file at path, usually
// config.Config.TraceLogPath.
func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f, now: time.Now}, nil
}

// Mirror copies every line to w as well, without the timestamp. A nil w
// stops mirroring.
func (l *Logger) Mirror(w io.Writer) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.mirror = w
	l.mu.Unlock()
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file. Multi-line
// messages keep their inner newlines.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := l.now().Format(time.RFC3339)
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, line)
	if l.mirror != nil {
		fmt.Fprintln(l.mirror, line)
	}
}
