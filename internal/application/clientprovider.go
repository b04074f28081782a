package application

import (
	"sync"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// ClientProvider enables runtime hot-swap of the registrar client. The GUI
// holds one provider for its lifetime; logging in with new credentials
// replaces the client without restarting the server.
type ClientProvider struct {
	mu      sync.RWMutex
	client  driven.RegistrarClient
	account string
	source  model.CredentialSource
}

// NewClientProvider creates a provider with the given initial client.
// client may be nil when no credentials are available at startup.
func NewClientProvider(client driven.RegistrarClient, account string, source model.CredentialSource) *ClientProvider {
	return &ClientProvider{client: client, account: account, source: source}
}

// Get returns the current client. Callers must check for nil if the
// provider was created without initial credentials.
func (p *ClientProvider) Get() driven.RegistrarClient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Account returns the account name associated with the current client, if
// any.
func (p *ClientProvider) Account() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.account
}

// Source reports which credential source produced the current client.
func (p *ClientProvider) Source() model.CredentialSource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source
}

// Replace swaps the current client. The next caller of Get() receives the
// new one.
func (p *ClientProvider) Replace(client driven.RegistrarClient, account string, source model.CredentialSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
	p.account = account
	p.source = source
}

// HasClient reports whether a non-nil client is currently held.
func (p *ClientProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}
