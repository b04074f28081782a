// Package credstore implements credential storage and resolution across the
// three static sources: environment variables, the OS keychain and a local
// JSON file. The Resolver tries them in that fixed priority order; the first
// fully populated source wins and no merging happens between sources.
package credstore

import (
	"os"

	"github.com/domenectl/domenectl/internal/domain/model"
)

// Environment variables recognized as the highest-priority source. Both must
// be set for the source to count as available.
const (
	EnvToken  = "DOMENESHOP_TOKEN"
	EnvSecret = "DOMENESHOP_SECRET"
)

// EnvSource reads the credential pair from the process environment.
type EnvSource struct{}

// Resolve returns the pair from the environment. A partially set pair
// (token without secret, or the reverse) reports ok=false so resolution
// falls through to the next source.
func (EnvSource) Resolve() (model.Credentials, bool) {
	creds := model.Credentials{
		Token:  os.Getenv(EnvToken),
		Secret: os.Getenv(EnvSecret),
		Source: model.SourceEnvironment,
	}
	return creds, creds.Complete()
}
