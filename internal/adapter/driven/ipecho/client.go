// Package ipecho implements the PublicIPResolver port against a plain-text
// IP echo service. Used by dynamic DNS updates when the caller supplies no
// explicit address.
package ipecho

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// DefaultURL answers GET with the caller's public address as bare text.
const DefaultURL = "https://api.ipify.org"

// Compile-time interface satisfaction check.
var _ driven.PublicIPResolver = (*Client)(nil)

// Client fetches the caller's public IP address from an echo service.
type Client struct {
	http *http.Client
	url  string
}

// New creates a client for the given echo URL; an empty url selects the
// default service.
func New(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		http: &http.Client{Timeout: 10 * time.Second},
		url:  url,
	}
}

// PublicIP returns the caller's public address as seen by the echo service.
func (c *Client) PublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", model.WrapError(model.KindRemoteUnavailable, err, "could not reach IP echo service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.NewError(model.KindRemoteUnavailable, "IP echo service returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", model.WrapError(model.KindRemoteUnavailable, err, "reading IP echo response")
	}
	ip := strings.TrimSpace(string(raw))
	if ip == "" {
		return "", model.NewError(model.KindRemoteUnavailable, "IP echo service returned an empty response")
	}
	return ip, nil
}
