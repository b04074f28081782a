package auditlog_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domenectl/domenectl/internal/adapter/driven/auditlog"
	"github.com/domenectl/domenectl/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLogger(t *testing.T) *auditlog.Logger {
	t.Helper()
	return auditlog.New(filepath.Join(t.TempDir(), "audit.log"), discardLogger())
}

func TestRecord_AppendsFormattedLine(t *testing.T) {
	logger := newLogger(t)
	logger.Record(model.AuditDNSCreated, "domain_id", "7", "record_id", "42")

	raw, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	line := strings.TrimRight(string(raw), "\n")

	parts := strings.Split(line, " | ")
	require.Len(t, parts, 5)
	assert.Equal(t, "INFO", parts[1])
	assert.Equal(t, "DNS_CREATED", parts[2])
	assert.Equal(t, "domain_id: 7", parts[3])
	assert.Equal(t, "record_id: 42", parts[4])
}

func TestRecord_SecuritySensitiveEventsAreWarnings(t *testing.T) {
	logger := newLogger(t)
	logger.Record(model.AuditAuthFailure, "reason", "auth_rejected")
	logger.Record(model.AuditRateLimitHit, "addr", "127.0.0.1")
	logger.Record(model.AuditAuthSuccess)

	entries := logger.Recent(10)
	require.Len(t, entries, 3)
	assert.Contains(t, entries[2], "| WARNING | AUTH_FAILURE |")
	assert.Contains(t, entries[1], "| WARNING | RATE_LIMIT_HIT |")
	assert.Contains(t, entries[0], "| INFO | AUTH_SUCCESS")
}

func TestRecord_OnlyAppends(t *testing.T) {
	logger := newLogger(t)
	logger.Record(model.AuditAuthSuccess)
	first, err := os.ReadFile(logger.Path())
	require.NoError(t, err)

	logger.Record(model.AuditAccountCreated, "account", "Work")
	second, err := os.ReadFile(logger.Path())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(second), string(first)))
}

func TestRecord_WriteFailureDoesNotPanic(t *testing.T) {
	dir := t.TempDir()
	// A directory at the log path makes every append fail.
	path := filepath.Join(dir, "audit.log")
	require.NoError(t, os.Mkdir(path, 0o755))

	logger := auditlog.New(path, discardLogger())
	assert.NotPanics(t, func() {
		logger.Record(model.AuditAuthSuccess)
	})
}

func TestRecent_NewestFirstAndBounded(t *testing.T) {
	logger := newLogger(t)
	logger.Record(model.AuditAuthSuccess)
	logger.Record(model.AuditAccountCreated, "account", "A")
	logger.Record(model.AuditAccountDeleted, "account", "A")

	entries := logger.Recent(2)
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0], "ACCOUNT_DELETED")
	assert.Contains(t, entries[1], "ACCOUNT_CREATED")
}

func TestRecent_MissingFileReadsAsEmpty(t *testing.T) {
	logger := newLogger(t)
	assert.Empty(t, logger.Recent(10))
}

func TestLogFileHasOwnerOnlyPermissions(t *testing.T) {
	logger := newLogger(t)
	logger.Record(model.AuditAuthSuccess)

	info, err := os.Stat(logger.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
