package model

import (
	"fmt"
	"slices"
)

// RecordType is a supported DNS record type.
type RecordType string

const (
	RecordA     RecordType = "A"
	RecordAAAA  RecordType = "AAAA"
	RecordCNAME RecordType = "CNAME"
	RecordMX    RecordType = "MX"
	RecordTXT   RecordType = "TXT"
	RecordSRV   RecordType = "SRV"
)

// RecordTypes lists every type the tool accepts, in display order.
var RecordTypes = []RecordType{RecordA, RecordAAAA, RecordCNAME, RecordMX, RecordTXT, RecordSRV}

// TTL bounds accepted by the registrar.
const (
	MinTTL = 60
	MaxTTL = 604800
)

// DNSRecord is a DNS record scoped under a domain. Priority, Weight and
// Port are pointers because they are mandatory for some types and must not
// be serialized at all for the others.
type DNSRecord struct {
	ID       int        `json:"id,omitempty"`
	Type     RecordType `json:"type"`
	Host     string     `json:"host"`
	Data     string     `json:"data"`
	TTL      int        `json:"ttl,omitempty"`
	Priority *int       `json:"priority,omitempty"`
	Weight   *int       `json:"weight,omitempty"`
	Port     *int       `json:"port,omitempty"`
}

// Validate checks the record before any network call. The type decides
// which fields are mandatory: MX needs a priority, SRV needs priority,
// weight and port.
func (r DNSRecord) Validate() error {
	if !slices.Contains(RecordTypes, r.Type) {
		return NewError(KindValidation, "unsupported record type %q (valid: A, AAAA, CNAME, MX, TXT, SRV)", string(r.Type))
	}
	if r.Host == "" {
		return NewError(KindValidation, "host is required")
	}
	if r.Data == "" {
		return NewError(KindValidation, "data is required")
	}
	if r.TTL != 0 && (r.TTL < MinTTL || r.TTL > MaxTTL) {
		return NewError(KindValidation, "ttl %d out of range [%d, %d]", r.TTL, MinTTL, MaxTTL)
	}

	switch r.Type {
	case RecordMX:
		if r.Priority == nil {
			return NewError(KindValidation, "MX records require a priority")
		}
	case RecordSRV:
		var missing []string
		if r.Priority == nil {
			missing = append(missing, "a priority")
		}
		if r.Weight == nil {
			missing = append(missing, "a weight")
		}
		if r.Port == nil {
			missing = append(missing, "a port")
		}
		if len(missing) > 0 {
			return NewError(KindValidation, "SRV records require %s", joinAnd(missing))
		}
	}

	return nil
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		s := ""
		for i, p := range parts[:len(parts)-1] {
			if i > 0 {
				s += ", "
			}
			s += p
		}
		return s + " and " + parts[len(parts)-1]
	}
}

func (r DNSRecord) String() string {
	return fmt.Sprintf("%s %s -> %s", r.Type, r.Host, r.Data)
}
