// Package model holds the pure domain types for the registrar client.
// All registrar-owned entities (domains, DNS records, forwards, invoices)
// are pass-through views of remote state; the only local logic is input
// validation before submission.
package model

// DomainServices describes which registrar services are active for a domain.
type DomainServices struct {
	Registrar bool   `json:"registrar"`
	DNS       bool   `json:"dns"`
	Email     bool   `json:"email"`
	Webhotel  string `json:"webhotel"`
}

// Domain is a registered domain as reported by the remote API.
type Domain struct {
	ID             int            `json:"id"`
	Name           string         `json:"domain"`
	Status         string         `json:"status"`
	Registrant     string         `json:"registrant"`
	RegisteredDate string         `json:"registered_date"`
	ExpiryDate     string         `json:"expiry_date"`
	Renew          bool           `json:"renew"`
	Nameservers    []string       `json:"nameservers"`
	Services       DomainServices `json:"services"`
}
