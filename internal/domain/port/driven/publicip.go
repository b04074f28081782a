package driven

import "context"

// PublicIPResolver is the driven port for the external IP-echo service used
// by dynamic DNS updates when the caller supplies no explicit address.
type PublicIPResolver interface {
	PublicIP(ctx context.Context) (string, error)
}
