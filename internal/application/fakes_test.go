package application_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// fakeRegistrar is a scriptable RegistrarClient. Only the methods a test
// exercises need behavior; the rest return zero values.
type fakeRegistrar struct {
	domains    []model.Domain
	domainsErr error

	dyndnsErr   func(hostname string) error
	dyndnsCalls []string
	dyndnsIPs   []string
}

func (f *fakeRegistrar) Domains(ctx context.Context, filter string) ([]model.Domain, error) {
	return f.domains, f.domainsErr
}

func (f *fakeRegistrar) Domain(ctx context.Context, id int) (*model.Domain, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRegistrar) DNSRecords(ctx context.Context, domainID int, host, recordType string) ([]model.DNSRecord, error) {
	return nil, nil
}

func (f *fakeRegistrar) DNSRecord(ctx context.Context, domainID, recordID int) (*model.DNSRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRegistrar) CreateDNSRecord(ctx context.Context, domainID int, rec model.DNSRecord) (int, error) {
	return 0, nil
}

func (f *fakeRegistrar) UpdateDNSRecord(ctx context.Context, domainID, recordID int, rec model.DNSRecord) error {
	return nil
}

func (f *fakeRegistrar) DeleteDNSRecord(ctx context.Context, domainID, recordID int) error {
	return nil
}

func (f *fakeRegistrar) Forwards(ctx context.Context, domainID int) ([]model.Forward, error) {
	return nil, nil
}

func (f *fakeRegistrar) Forward(ctx context.Context, domainID int, host string) (*model.Forward, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRegistrar) CreateForward(ctx context.Context, domainID int, fwd model.Forward) error {
	return nil
}

func (f *fakeRegistrar) UpdateForward(ctx context.Context, domainID int, host string, fwd model.Forward) error {
	return nil
}

func (f *fakeRegistrar) DeleteForward(ctx context.Context, domainID int, host string) error {
	return nil
}

func (f *fakeRegistrar) Invoices(ctx context.Context, status string) ([]model.Invoice, error) {
	return nil, nil
}

func (f *fakeRegistrar) Invoice(ctx context.Context, id int) (*model.Invoice, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRegistrar) UpdateDynDNS(ctx context.Context, hostname, myip string) error {
	f.dyndnsCalls = append(f.dyndnsCalls, hostname)
	f.dyndnsIPs = append(f.dyndnsIPs, myip)
	if f.dyndnsErr != nil {
		return f.dyndnsErr(hostname)
	}
	return nil
}

var _ driven.RegistrarClient = (*fakeRegistrar)(nil)

// fakeAudit records events in memory.
type fakeAudit struct {
	mu      sync.Mutex
	entries []string
}

func (f *fakeAudit) Record(event model.AuditEvent, kv ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, string(event)+" "+strings.Join(kv, " "))
}

func (f *fakeAudit) Recent(n int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) > n {
		return f.entries[len(f.entries)-n:]
	}
	return f.entries
}

func (f *fakeAudit) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.entries...)
}

// fakePublicIP resolves to a fixed address or error.
type fakePublicIP struct {
	ip    string
	err   error
	calls int
}

func (f *fakePublicIP) PublicIP(ctx context.Context) (string, error) {
	f.calls++
	return f.ip, f.err
}
