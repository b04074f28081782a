package driven

import "github.com/domenectl/domenectl/internal/domain/model"

// AuditLog is the driven port for the append-only security event log.
// Recording is fire-and-forget: implementations must never fail the calling
// operation, whatever happens to the log file. kv pairs are alternating
// key/value strings appended to the entry.
type AuditLog interface {
	Record(event model.AuditEvent, kv ...string)

	// Recent returns up to n of the latest entries, newest first.
	Recent(n int) []string
}
