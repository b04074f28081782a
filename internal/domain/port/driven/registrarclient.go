// Package driven defines the driven ports: interfaces the application and
// driving adapters depend on, implemented by the adapter layer.
package driven

import (
	"context"

	"github.com/domenectl/domenectl/internal/domain/model"
)

// RegistrarClient is the driven port for the remote registrar API. Every
// method is a single authenticated HTTP call; there is no client-side state,
// caching or retrying. Errors are classified model.Error values.
type RegistrarClient interface {
	// Domains lists all domains, optionally filtered by a substring
	// (e.g. ".no"). Domain fetches one by ID.
	Domains(ctx context.Context, filter string) ([]model.Domain, error)
	Domain(ctx context.Context, id int) (*model.Domain, error)

	// DNS records are scoped under a domain. List accepts optional host and
	// type filters. CreateDNSRecord returns the new record's remote ID.
	DNSRecords(ctx context.Context, domainID int, host string, recordType string) ([]model.DNSRecord, error)
	DNSRecord(ctx context.Context, domainID, recordID int) (*model.DNSRecord, error)
	CreateDNSRecord(ctx context.Context, domainID int, rec model.DNSRecord) (int, error)
	UpdateDNSRecord(ctx context.Context, domainID, recordID int, rec model.DNSRecord) error
	DeleteDNSRecord(ctx context.Context, domainID, recordID int) error

	// HTTP forwards are scoped under a domain and keyed by host.
	Forwards(ctx context.Context, domainID int) ([]model.Forward, error)
	Forward(ctx context.Context, domainID int, host string) (*model.Forward, error)
	CreateForward(ctx context.Context, domainID int, fwd model.Forward) error
	UpdateForward(ctx context.Context, domainID int, host string, fwd model.Forward) error
	DeleteForward(ctx context.Context, domainID int, host string) error

	// Invoices are read-only. List accepts an optional status filter.
	Invoices(ctx context.Context, status string) ([]model.Invoice, error)
	Invoice(ctx context.Context, id int) (*model.Invoice, error)

	// UpdateDynDNS points hostname at myip. myip may hold several
	// comma-separated addresses (IPv4 and IPv6).
	UpdateDynDNS(ctx context.Context, hostname string, myip string) error
}
