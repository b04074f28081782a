// Package auditlog implements the AuditLog port as an append-only file of
// security-relevant events. The log never participates in control flow: a
// write failure is reported on the diagnostic channel (slog to stderr) and
// the primary operation continues unaffected.
package auditlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AuditLog = (*Logger)(nil)

// Logger appends one line per event to a file with owner-only permissions.
// Entries are immutable; the file only ever grows.
type Logger struct {
	path   string
	logger *slog.Logger
	now    func() time.Time // test seam
}

// New creates a Logger writing to path. logger receives diagnostics about
// audit failures; pass slog.Default() in production.
func New(path string, logger *slog.Logger) *Logger {
	return &Logger{path: path, logger: logger, now: time.Now}
}

// Path returns the log file path.
func (l *Logger) Path() string { return l.path }

// Record appends one event line. kv pairs are alternating key/value strings.
// Line format: "2006-01-02 15:04:05 | LEVEL | EVENT | key: value | ...".
// Secrets must never be passed as values.
func (l *Logger) Record(event model.AuditEvent, kv ...string) {
	level := "INFO"
	if event.Warning() {
		level = "WARNING"
	}

	parts := []string{l.now().Format("2006-01-02 15:04:05"), level, string(event)}
	for i := 0; i+1 < len(kv); i += 2 {
		parts = append(parts, kv[i]+": "+kv[i+1])
	}
	line := strings.Join(parts, " | ") + "\n"

	if err := l.append(line); err != nil {
		l.logger.Warn("audit log write failed", "error", err, "event", string(event))
	}
}

func (l *Logger) append(line string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("creating audit log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest entries, newest first. A missing or
// unreadable log reads as empty.
func (l *Logger) Recent(n int) []string {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return []string{}
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return []string{}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	// Reverse in place: newest first.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}
