package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domenectl/domenectl/internal/adapter/driven/credstore"
	"github.com/domenectl/domenectl/internal/application"
	"github.com/domenectl/domenectl/internal/config"
	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// fakeClient counts mutating calls so tests can assert that cancelled or
// invalid commands never reach the network.
type fakeClient struct {
	domains []model.Domain
	record  model.DNSRecord
	forward model.Forward

	createCalls int
	updateCalls int
	deleteCalls int
	dyndnsCalls int

	lastRecord model.DNSRecord
}

func (f *fakeClient) Domains(ctx context.Context, filter string) ([]model.Domain, error) {
	return f.domains, nil
}

func (f *fakeClient) Domain(ctx context.Context, id int) (*model.Domain, error) {
	for i := range f.domains {
		if f.domains[i].ID == id {
			return &f.domains[i], nil
		}
	}
	return nil, model.NewError(model.KindValidation, "domain not found")
}

func (f *fakeClient) DNSRecords(ctx context.Context, domainID int, host, recordType string) ([]model.DNSRecord, error) {
	return []model.DNSRecord{f.record}, nil
}

func (f *fakeClient) DNSRecord(ctx context.Context, domainID, recordID int) (*model.DNSRecord, error) {
	rec := f.record
	return &rec, nil
}

func (f *fakeClient) CreateDNSRecord(ctx context.Context, domainID int, rec model.DNSRecord) (int, error) {
	f.createCalls++
	f.lastRecord = rec
	return 99, nil
}

func (f *fakeClient) UpdateDNSRecord(ctx context.Context, domainID, recordID int, rec model.DNSRecord) error {
	f.updateCalls++
	f.lastRecord = rec
	return nil
}

func (f *fakeClient) DeleteDNSRecord(ctx context.Context, domainID, recordID int) error {
	f.deleteCalls++
	return nil
}

func (f *fakeClient) Forwards(ctx context.Context, domainID int) ([]model.Forward, error) {
	return []model.Forward{f.forward}, nil
}

func (f *fakeClient) Forward(ctx context.Context, domainID int, host string) (*model.Forward, error) {
	fwd := f.forward
	return &fwd, nil
}

func (f *fakeClient) CreateForward(ctx context.Context, domainID int, fwd model.Forward) error {
	f.createCalls++
	return nil
}

func (f *fakeClient) UpdateForward(ctx context.Context, domainID int, host string, fwd model.Forward) error {
	f.updateCalls++
	return nil
}

func (f *fakeClient) DeleteForward(ctx context.Context, domainID int, host string) error {
	f.deleteCalls++
	return nil
}

func (f *fakeClient) Invoices(ctx context.Context, status string) ([]model.Invoice, error) {
	return []model.Invoice{{ID: 3, Type: "invoice", Amount: 120.5, Currency: "NOK", Status: "unpaid", DueDate: "2026-09-01"}}, nil
}

func (f *fakeClient) Invoice(ctx context.Context, id int) (*model.Invoice, error) {
	return &model.Invoice{ID: id, Status: "paid"}, nil
}

func (f *fakeClient) UpdateDynDNS(ctx context.Context, hostname, myip string) error {
	f.dyndnsCalls++
	return nil
}

var _ driven.RegistrarClient = (*fakeClient)(nil)

type recordingAudit struct {
	entries []string
}

func (a *recordingAudit) Record(event model.AuditEvent, kv ...string) {
	a.entries = append(a.entries, string(event)+" "+strings.Join(kv, " "))
}

func (a *recordingAudit) Recent(n int) []string { return a.entries }

type staticIP struct{ ip string }

func (s staticIP) PublicIP(ctx context.Context) (string, error) {
	if s.ip == "" {
		return "", model.NewError(model.KindRemoteUnavailable, "echo down")
	}
	return s.ip, nil
}

// testApp wires an App around fakes. Credentials come from the environment
// so resolution always succeeds without prompting.
func testApp(t *testing.T, client *fakeClient) (*App, *bytes.Buffer, *recordingAudit) {
	t.Helper()
	t.Setenv(credstore.EnvToken, "tok")
	t.Setenv(credstore.EnvSecret, "sec")

	resolver := credstore.NewResolver(nil, credstore.NewFileStore(filepath.Join(t.TempDir(), "credentials.json")))
	audit := &recordingAudit{}
	factory := func(creds model.Credentials) driven.RegistrarClient { return client }

	stdout := &bytes.Buffer{}
	app := &App{
		cfg:         &config.Config{},
		resolver:    resolver,
		audit:       audit,
		accounts:    application.NewAccountService(resolver, audit, factory),
		newClient:   factory,
		publicIP:    staticIP{ip: "198.51.100.7"},
		stdin:       strings.NewReader(""),
		stdout:      stdout,
		stderr:      &bytes.Buffer{},
		interactive: false,
	}
	return app, stdout, audit
}

func run(t *testing.T, app *App, args ...string) error {
	t.Helper()
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)
	return root.Execute()
}

func TestDomainsList_TableOutput(t *testing.T) {
	client := &fakeClient{domains: []model.Domain{
		{ID: 1, Name: "example.no", Status: "active", ExpiryDate: "2027-01-01", Renew: true},
	}}
	app, stdout, _ := testApp(t, client)

	require.NoError(t, run(t, app, "domains", "list"))
	out := stdout.String()
	assert.Contains(t, out, "example.no")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "auto")
}

func TestDomainsList_JSONOutput(t *testing.T) {
	client := &fakeClient{domains: []model.Domain{
		{ID: 1, Name: "example.no", Status: "active"},
	}}
	app, stdout, _ := testApp(t, client)

	require.NoError(t, run(t, app, "domains", "list", "--json"))

	var domains []model.Domain
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &domains))
	require.Len(t, domains, 1)
	assert.Equal(t, "example.no", domains[0].Name)
}

func TestDNSAdd_ValidationRunsBeforeAnyNetworkCall(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "MX without priority",
			args:    []string{"dns", "add", "7", "--type", "mx", "--host", "@", "--data", "mail.example.no"},
			wantErr: "MX records require a priority",
		},
		{
			name:    "SRV without weight and port",
			args:    []string{"dns", "add", "7", "--type", "srv", "--host", "_sip._tcp", "--data", "sip.example.no", "--priority", "10"},
			wantErr: "a weight and a port",
		},
		{
			name:    "ttl out of range",
			args:    []string{"dns", "add", "7", "--type", "a", "--host", "www", "--data", "192.0.2.1", "--ttl", "10"},
			wantErr: "out of range",
		},
		{
			name:    "garbage domain id",
			args:    []string{"dns", "add", "abc", "--type", "a", "--host", "www", "--data", "192.0.2.1"},
			wantErr: "invalid domain id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			app, _, _ := testApp(t, client)

			err := run(t, app, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, model.KindValidation, model.KindOf(err))
			assert.Zero(t, client.createCalls)
		})
	}
}

func TestDNSAdd_CreatesAndAudits(t *testing.T) {
	client := &fakeClient{}
	app, stdout, audit := testApp(t, client)

	err := run(t, app, "dns", "add", "7",
		"--type", "mx", "--host", "@", "--data", "mail.example.no", "--priority", "10", "--ttl", "3600")
	require.NoError(t, err)

	assert.Equal(t, 1, client.createCalls)
	require.NotNil(t, client.lastRecord.Priority)
	assert.Equal(t, 10, *client.lastRecord.Priority)
	assert.Equal(t, model.RecordMX, client.lastRecord.Type)
	assert.Contains(t, stdout.String(), "Created record 99")
	require.NotEmpty(t, audit.entries)
	assert.Contains(t, audit.entries[0], "DNS_CREATED")
	assert.Contains(t, audit.entries[0], "record_id 99")
}

func TestDNSUpdate_MergesOnlyChangedFlags(t *testing.T) {
	client := &fakeClient{record: model.DNSRecord{
		ID: 42, Type: model.RecordA, Host: "www", Data: "192.0.2.1", TTL: 3600,
	}}
	app, _, _ := testApp(t, client)

	require.NoError(t, run(t, app, "dns", "update", "7", "42", "--data", "192.0.2.99"))

	assert.Equal(t, 1, client.updateCalls)
	assert.Equal(t, "192.0.2.99", client.lastRecord.Data)
	assert.Equal(t, "www", client.lastRecord.Host)
	assert.Equal(t, 3600, client.lastRecord.TTL)
}

func TestDNSDelete_DeclinedConfirmationMakesNoMutatingCall(t *testing.T) {
	client := &fakeClient{record: model.DNSRecord{ID: 42, Type: model.RecordA, Host: "www", Data: "192.0.2.1"}}
	app, _, audit := testApp(t, client)
	app.stdin = strings.NewReader("n\n")

	err := run(t, app, "dns", "delete", "7", "42")
	require.Error(t, err)
	assert.Equal(t, model.KindUserCancelled, model.KindOf(err))
	assert.Zero(t, client.deleteCalls)
	assert.Empty(t, audit.entries)
}

func TestDNSDelete_ConfirmedDeletesAndAudits(t *testing.T) {
	client := &fakeClient{record: model.DNSRecord{ID: 42, Type: model.RecordA, Host: "www", Data: "192.0.2.1"}}
	app, stdout, audit := testApp(t, client)
	app.stdin = strings.NewReader("y\n")

	require.NoError(t, run(t, app, "dns", "delete", "7", "42"))
	assert.Equal(t, 1, client.deleteCalls)
	assert.Contains(t, stdout.String(), "Deleted record 42")
	require.NotEmpty(t, audit.entries)
	assert.Contains(t, audit.entries[0], "DNS_DELETED")
}

func TestDNSDelete_YesFlagSkipsPrompt(t *testing.T) {
	client := &fakeClient{record: model.DNSRecord{ID: 42, Type: model.RecordA, Host: "www", Data: "192.0.2.1"}}
	app, _, _ := testApp(t, client)

	require.NoError(t, run(t, app, "dns", "delete", "7", "42", "--yes"))
	assert.Equal(t, 1, client.deleteCalls)
}

func TestForwardsAdd_RejectsNonHTTPURL(t *testing.T) {
	client := &fakeClient{}
	app, _, _ := testApp(t, client)

	err := run(t, app, "forwards", "add", "7", "www", "--url", "ftp://example.com")
	require.Error(t, err)
	assert.Equal(t, model.KindValidation, model.KindOf(err))
	assert.Zero(t, client.createCalls)
}

func TestForwardsDelete_DeclinedMakesNoMutatingCall(t *testing.T) {
	client := &fakeClient{forward: model.Forward{Host: "www", URL: "https://example.com"}}
	app, _, _ := testApp(t, client)
	app.stdin = strings.NewReader("no\n")

	err := run(t, app, "forwards", "delete", "7", "www")
	require.Error(t, err)
	assert.Equal(t, model.KindUserCancelled, model.KindOf(err))
	assert.Zero(t, client.deleteCalls)
}

func TestInvoicesList_RejectsUnknownStatusLocally(t *testing.T) {
	client := &fakeClient{}
	app, _, _ := testApp(t, client)

	err := run(t, app, "invoices", "list", "--status", "overdue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestDDNS_UpdatesEveryHostname(t *testing.T) {
	client := &fakeClient{}
	app, stdout, _ := testApp(t, client)

	require.NoError(t, run(t, app, "ddns", "a.example.no", "b.example.no", "--ip", "192.0.2.1"))
	assert.Equal(t, 2, client.dyndnsCalls)
	assert.Contains(t, stdout.String(), "Updated 2 hostname(s)")
}

func TestReportError_JSONModeEmitsStableShape(t *testing.T) {
	app, _, _ := testApp(t, &fakeClient{})
	stderr := &bytes.Buffer{}
	app.stderr = stderr
	app.jsonOut = true

	app.reportError(model.NewError(model.KindAuthRejected, "authentication rejected"))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &payload))
	assert.Equal(t, "authentication rejected", payload["error"])
	assert.Equal(t, "auth_rejected", payload["kind"])
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		out := &bytes.Buffer{}
		got := confirm(strings.NewReader(tt.input), out, "Proceed?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestAccountsTest_FailuresProduceNonNilError(t *testing.T) {
	app, _, _ := testApp(t, &fakeClient{})
	t.Setenv(credstore.EnvToken, "")
	t.Setenv(credstore.EnvSecret, "")

	err := run(t, app, "accounts", "test", "Missing")
	require.Error(t, err)
}

func TestUnknownAccountFlagSurfacesCredentialsMissing(t *testing.T) {
	app, _, _ := testApp(t, &fakeClient{})
	t.Setenv(credstore.EnvToken, "")
	t.Setenv(credstore.EnvSecret, "")

	err := run(t, app, "--account", "Nope", "domains", "list")
	require.Error(t, err)
	assert.Equal(t, model.KindCredentialsMissing, model.KindOf(err))
}

func TestExecuteReportsConfigErrorWithoutPanicking(t *testing.T) {
	t.Setenv("DOMENECTL_HTTP_TIMEOUT", "soon")

	var code int
	assert.NotPanics(t, func() { code = Execute() })
	assert.Equal(t, 1, code)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42", "domain id")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = parseID("-1", "domain id")
	require.Error(t, err)
	_, err = parseID("abc", "domain id")
	require.Error(t, err)
	assert.True(t, errors.As(err, new(*model.Error)))
}
