// Package web is the browser-facing driving adapter: a JSON API plus a small
// embedded frontend, served on the loopback interface only. Mutating
// endpoints are CSRF-protected with a double-submit token and the
// authentication endpoints are rate limited per client address.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/domenectl/domenectl/internal/adapter/driven/credstore"
	"github.com/domenectl/domenectl/internal/application"
	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// Handler serves the GUI JSON API.
type Handler struct {
	provider  *application.ClientProvider
	resolver  *credstore.Resolver
	accounts  *application.AccountService
	newClient application.ClientFactory
	publicIP  driven.PublicIPResolver
	audit     driven.AuditLog
	limiter   *rateLimiter
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	provider *application.ClientProvider,
	resolver *credstore.Resolver,
	accounts *application.AccountService,
	newClient application.ClientFactory,
	publicIP driven.PublicIPResolver,
	audit driven.AuditLog,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		provider:  provider,
		resolver:  resolver,
		accounts:  accounts,
		newClient: newClient,
		publicIP:  publicIP,
		audit:     audit,
		limiter:   newRateLimiter(),
		logger:    logger,
	}
}

// client returns the active registrar client or writes a 401 and returns nil.
func (h *Handler) client(w http.ResponseWriter) driven.RegistrarClient {
	client := h.provider.Get()
	if client == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error: "not authenticated",
			Kind:  string(model.KindCredentialsMissing),
		})
		return nil
	}
	return client
}

// CSRFToken issues (or echoes) the CSRF token so the frontend can send it
// back in the X-CSRF-Token header.
func (h *Handler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token := issueCSRFToken(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AuthStatusResponse reports session and credential storage state.
type AuthStatusResponse struct {
	Authenticated bool           `json:"authenticated"`
	Account       string         `json:"account,omitempty"`
	Source        string         `json:"source,omitempty"`
	Storage       credstore.Info `json:"storage"`
}

// AuthStatus reports whether a client is active and where credentials live.
func (h *Handler) AuthStatus(w http.ResponseWriter, _ *http.Request) {
	resp := AuthStatusResponse{
		Authenticated: h.provider.HasClient(),
		Storage:       h.resolver.Info(),
	}
	if resp.Authenticated {
		resp.Account = h.provider.Account()
		resp.Source = string(h.provider.Source())
	}
	writeJSON(w, http.StatusOK, resp)
}

// LoginRequest is the JSON body for the login endpoint. Either Account names
// a stored account, or Token and Secret carry a fresh pair. A fresh pair may
// be persisted under SaveAs.
type LoginRequest struct {
	Account string `json:"account,omitempty"`
	Token   string `json:"token,omitempty"`
	Secret  string `json:"secret,omitempty"`
	SaveAs  string `json:"save_as,omitempty"`
}

// Login verifies credentials with a live API call and swaps them into the
// running server. Rate limited per client address.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.allow(clientAddr(r)) {
		h.audit.Record(model.AuditRateLimitHit, "addr", clientAddr(r), "path", r.URL.Path)
		writeError(w, http.StatusTooManyRequests, "too many login attempts, retry in a minute")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var creds model.Credentials
	account := req.Account
	switch {
	case account != "":
		var err error
		creds, err = h.resolver.Resolve(account)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	case req.Token != "" && req.Secret != "":
		creds = model.Credentials{Token: req.Token, Secret: req.Secret, Source: model.SourceInteractive}
	default:
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "provide an account name or a token and secret")
		return
	}

	domains, err := h.accounts.Verify(r.Context(), creds)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if account == "" && req.SaveAs != "" {
		storage, err := h.resolver.Save(req.SaveAs, creds, true)
		if err != nil {
			h.logger.Warn("could not persist credentials", "error", err)
		} else {
			account = req.SaveAs
			h.audit.Record(model.AuditAccountCreated, "account", req.SaveAs, "storage", string(storage))
			h.audit.Record(model.AuditCredentialsSaved, "storage", string(storage))
		}
	}

	h.provider.Replace(h.newClient(creds), account, creds.Source)
	h.audit.Record(model.AuditAccountSelected, "account", account)
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"account":       account,
		"domains":       domains,
	})
}

// Logout drops the active client. Stored credentials are untouched.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.provider.Replace(nil, "", "")
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// ListAccounts returns the stored account names. Never the pairs themselves.
func (h *Handler) ListAccounts(w http.ResponseWriter, _ *http.Request) {
	names, err := h.accounts.List()
	if err != nil {
		h.logger.Error("failed to list accounts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// ListDomains returns the domains on the account, optionally filtered.
func (h *Handler) ListDomains(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domains, err := client.Domains(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

// GetDomain returns one domain in full.
func (h *Handler) GetDomain(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	domain, err := client.Domain(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain)
}

// ListDNSRecords returns the DNS records of a domain, with optional host and
// type filters.
func (h *Handler) ListDNSRecords(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	records, err := client.DNSRecords(r.Context(), id,
		r.URL.Query().Get("host"),
		strings.ToUpper(r.URL.Query().Get("type")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetDNSRecord returns one DNS record.
func (h *Handler) GetDNSRecord(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domainID, recordID, ok := pathRecordIDs(w, r)
	if !ok {
		return
	}
	record, err := client.DNSRecord(r.Context(), domainID, recordID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// CreateDNSRecord validates and creates a record.
func (h *Handler) CreateDNSRecord(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domainID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var record model.DNSRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := record.Validate(); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeDomainError(w, err)
		return
	}
	id, err := client.CreateDNSRecord(r.Context(), domainID, record)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.audit.Record(model.AuditDNSCreated,
		"domain_id", strconv.Itoa(domainID),
		"record_id", strconv.Itoa(id),
		"type", string(record.Type),
		"host", record.Host,
	)
	record.ID = id
	writeJSON(w, http.StatusCreated, record)
}

// UpdateDNSRecord replaces a record with the submitted body.
func (h *Handler) UpdateDNSRecord(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domainID, recordID, ok := pathRecordIDs(w, r)
	if !ok {
		return
	}
	var record model.DNSRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := record.Validate(); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeDomainError(w, err)
		return
	}
	if err := client.UpdateDNSRecord(r.Context(), domainID, recordID, record); err != nil {
		writeDomainError(w, err)
		return
	}
	h.audit.Record(model.AuditDNSUpdated,
		"domain_id", strconv.Itoa(domainID),
		"record_id", strconv.Itoa(recordID),
		"type", string(record.Type),
		"host", record.Host,
	)
	record.ID = recordID
	writeJSON(w, http.StatusOK, record)
}

// DeleteDNSRecord removes a record.
func (h *Handler) DeleteDNSRecord(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domainID, recordID, ok := pathRecordIDs(w, r)
	if !ok {
		return
	}
	if err := client.DeleteDNSRecord(r.Context(), domainID, recordID); err != nil {
		writeDomainError(w, err)
		return
	}
	h.audit.Record(model.AuditDNSDeleted,
		"domain_id", strconv.Itoa(domainID),
		"record_id", strconv.Itoa(recordID),
	)
	w.WriteHeader(http.StatusNoContent)
}

// ListForwards returns the HTTP forwards of a domain.
func (h *Handler) ListForwards(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	forwards, err := client.Forwards(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forwards)
}

// CreateForward validates and creates an HTTP forward.
func (h *Handler) CreateForward(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domainID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var forward model.Forward
	if err := json.NewDecoder(r.Body).Decode(&forward); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := forward.Validate(); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeDomainError(w, err)
		return
	}
	if err := client.CreateForward(r.Context(), domainID, forward); err != nil {
		writeDomainError(w, err)
		return
	}
	h.audit.Record(model.AuditForwardCreated,
		"domain_id", strconv.Itoa(domainID), "host", forward.Host, "url", forward.URL)
	writeJSON(w, http.StatusCreated, forward)
}

// GetForward returns one HTTP forward.
func (h *Handler) GetForward(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domainID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	forward, err := client.Forward(r.Context(), domainID, r.PathValue("host"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forward)
}

// UpdateForward replaces an HTTP forward with the submitted body.
func (h *Handler) UpdateForward(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domainID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var forward model.Forward
	if err := json.NewDecoder(r.Body).Decode(&forward); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	forward.Host = r.PathValue("host")
	if err := forward.Validate(); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeDomainError(w, err)
		return
	}
	if err := client.UpdateForward(r.Context(), domainID, forward.Host, forward); err != nil {
		writeDomainError(w, err)
		return
	}
	h.audit.Record(model.AuditForwardUpdated,
		"domain_id", strconv.Itoa(domainID), "host", forward.Host, "url", forward.URL)
	writeJSON(w, http.StatusOK, forward)
}

// DeleteForward removes an HTTP forward.
func (h *Handler) DeleteForward(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	domainID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	host := r.PathValue("host")
	if err := client.DeleteForward(r.Context(), domainID, host); err != nil {
		writeDomainError(w, err)
		return
	}
	h.audit.Record(model.AuditForwardDeleted,
		"domain_id", strconv.Itoa(domainID), "host", host)
	w.WriteHeader(http.StatusNoContent)
}

// ListInvoices returns invoices, optionally filtered by status.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	invoices, err := client.Invoices(r.Context(), strings.ToLower(r.URL.Query().Get("status")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice returns one invoice.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	invoice, err := client.Invoice(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// DDNSRequest is the JSON body for the dynamic DNS endpoint.
type DDNSRequest struct {
	Hostnames []string `json:"hostnames"`
	IPs       []string `json:"ips,omitempty"`
}

// UpdateDDNS runs a dynamic DNS update and returns per-hostname outcomes.
// Partial failure still yields 200: the outcome list is the result.
func (h *Handler) UpdateDDNS(w http.ResponseWriter, r *http.Request) {
	client := h.client(w)
	if client == nil {
		return
	}
	var req DDNSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.audit.Record(model.AuditInvalidInput, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	svc := application.NewDDNSService(client, h.publicIP, h.audit)
	results, err := svc.Update(r.Context(), req.Hostnames, req.IPs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"failed":  application.Failed(results),
	})
}

// AuditLog returns the most recent audit entries, newest first.
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	n := 50
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			writeError(w, http.StatusBadRequest, "n must be an integer between 1 and 1000")
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, h.audit.Recent(n))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// pathID parses a numeric path value, writing a 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func pathRecordIDs(w http.ResponseWriter, r *http.Request) (domainID, recordID int, ok bool) {
	if domainID, ok = pathID(w, r, "id"); !ok {
		return 0, 0, false
	}
	if recordID, ok = pathID(w, r, "recordID"); !ok {
		return 0, 0, false
	}
	return domainID, recordID, true
}
