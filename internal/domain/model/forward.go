package model

import "strings"

// Forward is an HTTP forwarding rule scoped under a domain. The host is the
// subdomain ("@" for the root) and URL the redirect target. Frame selects
// the registrar's legacy iframe mode.
type Forward struct {
	Host  string `json:"host"`
	URL   string `json:"url"`
	Frame bool   `json:"frame"`
}

// Validate checks the forward before submission.
func (f Forward) Validate() error {
	if f.Host == "" {
		return NewError(KindValidation, "host is required")
	}
	if f.URL == "" {
		return NewError(KindValidation, "url is required")
	}
	if !strings.HasPrefix(f.URL, "http://") && !strings.HasPrefix(f.URL, "https://") {
		return NewError(KindValidation, "url must start with http:// or https://")
	}
	return nil
}
