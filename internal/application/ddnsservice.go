package application

import (
	"context"
	"strings"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// HostUpdate is the outcome of one dynamic-DNS update attempt.
type HostUpdate struct {
	Hostname string `json:"hostname"`
	IP       string `json:"ip,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// DDNSService updates dynamic DNS for one or more hostnames. Updates are
// independent: a failure on one hostname never stops the remaining ones,
// and the caller gets a per-hostname outcome list.
type DDNSService struct {
	client   driven.RegistrarClient
	publicIP driven.PublicIPResolver
	audit    driven.AuditLog
}

// NewDDNSService wires the service.
func NewDDNSService(client driven.RegistrarClient, publicIP driven.PublicIPResolver, audit driven.AuditLog) *DDNSService {
	return &DDNSService{client: client, publicIP: publicIP, audit: audit}
}

// Update points every hostname at the given addresses. ips may mix IPv4 and
// IPv6. When ips is empty, the caller's public address is resolved once via
// the IP echo service and used for every hostname; a resolution failure
// aborts the whole operation since there is nothing to point the records at.
func (s *DDNSService) Update(ctx context.Context, hostnames, ips []string) ([]HostUpdate, error) {
	hostnames = trimNonEmpty(hostnames)
	if len(hostnames) == 0 {
		return nil, model.NewError(model.KindValidation, "at least one hostname is required")
	}

	ips = trimNonEmpty(ips)
	if len(ips) == 0 {
		ip, err := s.publicIP.PublicIP(ctx)
		if err != nil {
			return nil, err
		}
		ips = []string{ip}
	}
	myip := strings.Join(ips, ",")

	results := make([]HostUpdate, 0, len(hostnames))
	for _, hostname := range hostnames {
		result := HostUpdate{Hostname: hostname, IP: myip, OK: true}
		if err := s.client.UpdateDynDNS(ctx, hostname, myip); err != nil {
			result.OK = false
			result.Error = err.Error()
		} else {
			s.audit.Record(model.AuditDDNSUpdated, "hostname", hostname)
		}
		results = append(results, result)
	}
	return results, nil
}

// Failed counts the unsuccessful outcomes in results.
func Failed(results []HostUpdate) int {
	n := 0
	for _, r := range results {
		if !r.OK {
			n++
		}
	}
	return n
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
