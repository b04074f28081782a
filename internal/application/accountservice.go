package application

import (
	"context"
	"strconv"

	"github.com/domenectl/domenectl/internal/adapter/driven/credstore"
	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// ClientFactory builds a registrar client for a credential pair. Injected
// so tests can hand back fakes.
type ClientFactory func(creds model.Credentials) driven.RegistrarClient

// AccountCheck is the outcome of testing one stored account against the
// remote API.
type AccountCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Domains int    `json:"domains,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AccountService manages the local multi-account credential store: it
// verifies pairs against the remote API before persisting them and writes
// audit entries for every security-relevant change.
type AccountService struct {
	resolver  *credstore.Resolver
	audit     driven.AuditLog
	newClient ClientFactory
}

// NewAccountService wires the service.
func NewAccountService(resolver *credstore.Resolver, audit driven.AuditLog, newClient ClientFactory) *AccountService {
	return &AccountService{resolver: resolver, audit: audit, newClient: newClient}
}

// Resolver exposes the underlying resolver for status reporting.
func (s *AccountService) Resolver() *credstore.Resolver { return s.resolver }

// List returns the stored account names.
func (s *AccountService) List() ([]string, error) {
	return s.resolver.ListAccounts()
}

// Verify performs a live domains call with the pair and returns the domain
// count on success. Both outcomes are audited.
func (s *AccountService) Verify(ctx context.Context, creds model.Credentials) (int, error) {
	client := s.newClient(creds)
	domains, err := client.Domains(ctx, "")
	if err != nil {
		s.audit.Record(model.AuditAuthFailure, "reason", string(model.KindOf(err)))
		return 0, err
	}
	s.audit.Record(model.AuditAuthSuccess)
	return len(domains), nil
}

// Add verifies the pair against the remote API and persists it under name.
// Returns where the pair was stored and how many domains the account sees.
func (s *AccountService) Add(ctx context.Context, name string, creds model.Credentials, preferKeychain bool) (model.CredentialSource, int, error) {
	if name == "" {
		return "", 0, model.NewError(model.KindValidation, "account name cannot be empty")
	}
	existing, err := s.resolver.ListAccounts()
	if err != nil {
		return "", 0, err
	}
	for _, n := range existing {
		if n == name {
			return "", 0, model.NewError(model.KindValidation, "account %q already exists", name)
		}
	}

	domains, err := s.Verify(ctx, creds)
	if err != nil {
		return "", 0, err
	}

	storage, err := s.resolver.Save(name, creds, preferKeychain)
	if err != nil {
		return "", 0, err
	}
	s.audit.Record(model.AuditAccountCreated, "account", name, "storage", string(storage))
	s.audit.Record(model.AuditCredentialsSaved, "storage", string(storage))
	return storage, domains, nil
}

// Remove deletes the named account from every store holding it.
func (s *AccountService) Remove(name string) error {
	if err := s.resolver.Delete(name); err != nil {
		return err
	}
	s.audit.Record(model.AuditAccountDeleted, "account", name)
	return nil
}

// RemoveAll deletes every stored account and returns how many went.
func (s *AccountService) RemoveAll() (int, error) {
	n, err := s.resolver.DeleteAll()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.audit.Record(model.AuditCredentialsDeleted, "accounts", strconv.Itoa(n))
	}
	return n, nil
}

// Rename moves an account to a new name.
func (s *AccountService) Rename(oldName, newName string) error {
	if err := s.resolver.Rename(oldName, newName); err != nil {
		return err
	}
	s.audit.Record(model.AuditAccountRenamed, "from", oldName, "to", newName)
	return nil
}

// MigrateToKeychain moves file-stored accounts into the OS keychain.
func (s *AccountService) MigrateToKeychain() (int, error) {
	n, err := s.resolver.MigrateFileToKeychain()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.audit.Record(model.AuditCredentialsMigrated, "from", "file", "to", "keychain", "accounts", strconv.Itoa(n))
	}
	return n, nil
}

// Test checks stored accounts against the remote API. names may be empty to
// test every account. One account failing does not stop the rest.
func (s *AccountService) Test(ctx context.Context, names []string) ([]AccountCheck, error) {
	if len(names) == 0 {
		all, err := s.resolver.ListAccounts()
		if err != nil {
			return nil, err
		}
		names = all
	}

	checks := make([]AccountCheck, 0, len(names))
	for _, name := range names {
		check := AccountCheck{Name: name}
		creds, err := s.resolver.Resolve(name)
		if err != nil {
			check.Error = err.Error()
			checks = append(checks, check)
			continue
		}
		domains, err := s.Verify(ctx, creds)
		if err != nil {
			check.Error = err.Error()
		} else {
			check.OK = true
			check.Domains = domains
		}
		checks = append(checks, check)
	}
	return checks, nil
}
