package model

// AuditEvent is a security-relevant event kind recorded in the append-only
// audit log. Values are stable strings; entries are grep targets.
type AuditEvent string

const (
	AuditAuthSuccess         AuditEvent = "AUTH_SUCCESS"
	AuditAuthFailure         AuditEvent = "AUTH_FAILURE"
	AuditCredentialsSaved    AuditEvent = "CREDENTIALS_SAVED"
	AuditCredentialsDeleted  AuditEvent = "CREDENTIALS_DELETED"
	AuditCredentialsMigrated AuditEvent = "CREDENTIALS_MIGRATED"

	AuditAccountCreated  AuditEvent = "ACCOUNT_CREATED"
	AuditAccountDeleted  AuditEvent = "ACCOUNT_DELETED"
	AuditAccountRenamed  AuditEvent = "ACCOUNT_RENAMED"
	AuditAccountSelected AuditEvent = "ACCOUNT_SELECTED"

	AuditDNSCreated     AuditEvent = "DNS_CREATED"
	AuditDNSUpdated     AuditEvent = "DNS_UPDATED"
	AuditDNSDeleted     AuditEvent = "DNS_DELETED"
	AuditForwardCreated AuditEvent = "FORWARD_CREATED"
	AuditForwardUpdated AuditEvent = "FORWARD_UPDATED"
	AuditForwardDeleted AuditEvent = "FORWARD_DELETED"
	AuditDDNSUpdated    AuditEvent = "DDNS_UPDATED"

	AuditRateLimitHit AuditEvent = "RATE_LIMIT_HIT"
	AuditCSRFFailure  AuditEvent = "CSRF_FAILURE"
	AuditInvalidInput AuditEvent = "INVALID_INPUT"
)

// Warning reports whether the event should be recorded at warning level.
func (e AuditEvent) Warning() bool {
	switch e {
	case AuditAuthFailure, AuditRateLimitHit, AuditCSRFFailure, AuditInvalidInput:
		return true
	}
	return false
}
