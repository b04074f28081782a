package driven

import (
	"errors"

	"github.com/domenectl/domenectl/internal/domain/model"
)

// ErrAccountNotFound is returned when a named account does not exist in a
// credential store.
var ErrAccountNotFound = errors.New("account not found")

// CredentialStore is the driven port for one persistent credential backend
// (OS keychain or local file). Stores hold named accounts; names are unique
// within a store. Operations act on plaintext pairs at this boundary.
type CredentialStore interface {
	// ListAccounts returns the stored account names, sorted.
	ListAccounts() ([]string, error)

	// LoadAccount returns the pair for name, or ErrAccountNotFound.
	LoadAccount(name string) (model.Credentials, error)

	// SaveAccount stores or replaces the pair for name.
	SaveAccount(name string, creds model.Credentials) error

	// DeleteAccount removes the pair for name. Deleting a missing account
	// returns ErrAccountNotFound.
	DeleteAccount(name string) error
}
