// Package domeneshop implements the RegistrarClient port against the
// Domeneshop REST API (https://api.domeneshop.no/v0). Every request carries
// HTTP Basic authentication; responses are JSON. No retries are performed:
// a single failed attempt is reported immediately, which is the right
// behavior for an interactive tool.
package domeneshop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// DefaultBaseURL is the fixed, versioned API endpoint.
const DefaultBaseURL = "https://api.domeneshop.no/v0"

// DefaultTimeout bounds every request so a dead network cannot hang an
// interactive invocation.
const DefaultTimeout = 15 * time.Second

// Compile-time interface satisfaction check.
var _ driven.RegistrarClient = (*Client)(nil)

// Client implements the driven.RegistrarClient port. It holds no mutable
// state beyond the credentials used to sign requests.
type Client struct {
	http    *http.Client
	baseURL string
	creds   model.Credentials
}

// NewClient creates a client for the production API with the default timeout.
func NewClient(creds model.Credentials) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
		creds:   creds,
	}
}

// NewClientWithBaseURL creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string, creds model.Credentials) *Client {
	return &Client{http: httpClient, baseURL: baseURL, creds: creds}
}

// do performs one authenticated API call. path must start with "/". body is
// JSON-encoded when non-nil; out is JSON-decoded from the response when
// non-nil and the response has content. Non-2xx responses and transport
// failures come back as classified model.Error values.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.creds.Token, c.creds.Secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.WrapError(model.KindRemoteUnavailable, err, "could not reach registrar API")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.WrapError(model.KindRemoteUnavailable, err, "reading response body")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// classifyStatus converts a non-2xx response into a typed error carrying the
// HTTP status and the remote-provided message when one is present.
func classifyStatus(resp *http.Response) error {
	msg := remoteMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if msg == "" {
			msg = "authentication rejected: check API token and secret"
		}
		return &model.Error{Kind: model.KindAuthRejected, Status: resp.StatusCode, Message: msg}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if msg == "" {
			msg = fmt.Sprintf("request rejected by registrar API (status %d)", resp.StatusCode)
		}
		return &model.Error{Kind: model.KindValidation, Status: resp.StatusCode, Message: msg}
	default:
		if msg == "" {
			msg = fmt.Sprintf("registrar API unavailable (status %d)", resp.StatusCode)
		}
		return &model.Error{Kind: model.KindRemoteUnavailable, Status: resp.StatusCode, Message: msg}
	}
}

// remoteMessage extracts a human-readable message from an error payload.
// The API uses {"code": ..., "help": ...}; older endpoints return bare text.
func remoteMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Code  string `json:"code"`
		Help  string `json:"help"`
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.Help != "" && payload.Code != "":
			return payload.Code + ": " + payload.Help
		case payload.Help != "":
			return payload.Help
		case payload.Error != "":
			return payload.Error
		case payload.Code != "":
			return payload.Code
		}
	}
	return ""
}

// Domains lists all domains, optionally filtered by substring.
func (c *Client) Domains(ctx context.Context, filter string) ([]model.Domain, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("domain", filter)
	}
	var domains []model.Domain
	if err := c.do(ctx, http.MethodGet, "/domains", query, nil, &domains); err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	if domains == nil {
		domains = []model.Domain{}
	}
	return domains, nil
}

// Domain fetches a single domain by ID.
func (c *Client) Domain(ctx context.Context, id int) (*model.Domain, error) {
	var domain model.Domain
	if err := c.do(ctx, http.MethodGet, "/domains/"+strconv.Itoa(id), nil, nil, &domain); err != nil {
		return nil, fmt.Errorf("fetching domain %d: %w", id, err)
	}
	return &domain, nil
}

// DNSRecords lists the DNS records of a domain, with optional host and
// type filters applied remotely.
func (c *Client) DNSRecords(ctx context.Context, domainID int, host, recordType string) ([]model.DNSRecord, error) {
	query := url.Values{}
	if host != "" {
		query.Set("host", host)
	}
	if recordType != "" {
		query.Set("type", recordType)
	}
	var records []model.DNSRecord
	if err := c.do(ctx, http.MethodGet, dnsPath(domainID, 0), query, nil, &records); err != nil {
		return nil, fmt.Errorf("listing DNS records for domain %d: %w", domainID, err)
	}
	if records == nil {
		records = []model.DNSRecord{}
	}
	return records, nil
}

// DNSRecord fetches a single DNS record.
func (c *Client) DNSRecord(ctx context.Context, domainID, recordID int) (*model.DNSRecord, error) {
	var record model.DNSRecord
	if err := c.do(ctx, http.MethodGet, dnsPath(domainID, recordID), nil, nil, &record); err != nil {
		return nil, fmt.Errorf("fetching DNS record %d of domain %d: %w", recordID, domainID, err)
	}
	return &record, nil
}

// CreateDNSRecord submits a new record and returns its remote ID.
func (c *Client) CreateDNSRecord(ctx context.Context, domainID int, rec model.DNSRecord) (int, error) {
	var created struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, dnsPath(domainID, 0), nil, rec, &created); err != nil {
		return 0, fmt.Errorf("creating DNS record for domain %d: %w", domainID, err)
	}
	return created.ID, nil
}

// UpdateDNSRecord replaces an existing record. The API expects a full
// record body, not a patch.
func (c *Client) UpdateDNSRecord(ctx context.Context, domainID, recordID int, rec model.DNSRecord) error {
	if err := c.do(ctx, http.MethodPut, dnsPath(domainID, recordID), nil, rec, nil); err != nil {
		return fmt.Errorf("updating DNS record %d of domain %d: %w", recordID, domainID, err)
	}
	return nil
}

// DeleteDNSRecord removes a record.
func (c *Client) DeleteDNSRecord(ctx context.Context, domainID, recordID int) error {
	if err := c.do(ctx, http.MethodDelete, dnsPath(domainID, recordID), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting DNS record %d of domain %d: %w", recordID, domainID, err)
	}
	return nil
}

// Forwards lists the HTTP forwards of a domain.
func (c *Client) Forwards(ctx context.Context, domainID int) ([]model.Forward, error) {
	var fwds []model.Forward
	if err := c.do(ctx, http.MethodGet, forwardPath(domainID, ""), nil, nil, &fwds); err != nil {
		return nil, fmt.Errorf("listing forwards for domain %d: %w", domainID, err)
	}
	if fwds == nil {
		fwds = []model.Forward{}
	}
	return fwds, nil
}

// Forward fetches a single forward by host.
func (c *Client) Forward(ctx context.Context, domainID int, host string) (*model.Forward, error) {
	var fwd model.Forward
	if err := c.do(ctx, http.MethodGet, forwardPath(domainID, host), nil, nil, &fwd); err != nil {
		return nil, fmt.Errorf("fetching forward %q of domain %d: %w", host, domainID, err)
	}
	return &fwd, nil
}

// CreateForward submits a new forward.
func (c *Client) CreateForward(ctx context.Context, domainID int, fwd model.Forward) error {
	if err := c.do(ctx, http.MethodPost, forwardPath(domainID, ""), nil, fwd, nil); err != nil {
		return fmt.Errorf("creating forward for domain %d: %w", domainID, err)
	}
	return nil
}

// UpdateForward replaces the forward for host.
func (c *Client) UpdateForward(ctx context.Context, domainID int, host string, fwd model.Forward) error {
	if err := c.do(ctx, http.MethodPut, forwardPath(domainID, host), nil, fwd, nil); err != nil {
		return fmt.Errorf("updating forward %q of domain %d: %w", host, domainID, err)
	}
	return nil
}

// DeleteForward removes the forward for host.
func (c *Client) DeleteForward(ctx context.Context, domainID int, host string) error {
	if err := c.do(ctx, http.MethodDelete, forwardPath(domainID, host), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting forward %q of domain %d: %w", host, domainID, err)
	}
	return nil
}

// Invoices lists invoices, optionally filtered by status.
func (c *Client) Invoices(ctx context.Context, status string) ([]model.Invoice, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var invoices []model.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoices", query, nil, &invoices); err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	return invoices, nil
}

// Invoice fetches a single invoice by ID.
func (c *Client) Invoice(ctx context.Context, id int) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoices/"+strconv.Itoa(id), nil, nil, &invoice); err != nil {
		return nil, fmt.Errorf("fetching invoice %d: %w", id, err)
	}
	return &invoice, nil
}

// UpdateDynDNS points hostname at myip. The dyndns endpoint is a GET with
// query parameters, mirroring the classic dyndns2 protocol.
func (c *Client) UpdateDynDNS(ctx context.Context, hostname, myip string) error {
	query := url.Values{}
	query.Set("hostname", hostname)
	if myip != "" {
		query.Set("myip", myip)
	}
	if err := c.do(ctx, http.MethodGet, "/dyndns/update", query, nil, nil); err != nil {
		return fmt.Errorf("updating dynamic DNS for %s: %w", hostname, err)
	}
	return nil
}

func dnsPath(domainID, recordID int) string {
	p := "/domains/" + strconv.Itoa(domainID) + "/dns"
	if recordID != 0 {
		p += "/" + strconv.Itoa(recordID)
	}
	return p
}

func forwardPath(domainID int, host string) string {
	p := "/domains/" + strconv.Itoa(domainID) + "/forwards/"
	if host != "" {
		p += url.PathEscape(host)
	}
	return p
}
