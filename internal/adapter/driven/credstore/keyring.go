package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/zalando/go-keyring"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// keyringService is the service name all entries are filed under.
const keyringService = "domenectl"

// accountIndexKey tracks the stored account names. Keychains have no native
// "list all", so the index lives in its own entry as a JSON array.
const accountIndexKey = "_accounts"

// legacyAccountName is the account a single unnamed pair maps onto.
const legacyAccountName = "Standard"

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*KeyringStore)(nil)

// KeyringStore persists named accounts in the OS keychain. The keychain is
// an optional capability: on systems without a usable backend the store
// reports unavailable and the resolver skips it.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a store using the default service name.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

// Available probes the keychain backend. A missing entry is fine; a backend
// error (no dbus secret service, locked keychain) is not.
func (s *KeyringStore) Available() bool {
	_, err := keyring.Get(s.service, accountIndexKey)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func tokenKey(name string) string  { return name + ":token" }
func secretKey(name string) string { return name + ":secret" }

func (s *KeyringStore) index() ([]string, error) {
	raw, err := keyring.Get(s.service, accountIndexKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading keychain account index: %w", err)
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("parsing keychain account index: %w", err)
	}
	return names, nil
}

func (s *KeyringStore) writeIndex(names []string) error {
	sort.Strings(names)
	raw, err := json.Marshal(names)
	if err != nil {
		return err
	}
	if err := keyring.Set(s.service, accountIndexKey, string(raw)); err != nil {
		return fmt.Errorf("writing keychain account index: %w", err)
	}
	return nil
}

// ListAccounts returns the stored account names, sorted.
func (s *KeyringStore) ListAccounts() ([]string, error) {
	names, err := s.index()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// LoadAccount returns the pair stored under name.
func (s *KeyringStore) LoadAccount(name string) (model.Credentials, error) {
	token, err := keyring.Get(s.service, tokenKey(name))
	if errors.Is(err, keyring.ErrNotFound) {
		return model.Credentials{}, driven.ErrAccountNotFound
	}
	if err != nil {
		return model.Credentials{}, fmt.Errorf("reading keychain entry: %w", err)
	}
	secret, err := keyring.Get(s.service, secretKey(name))
	if errors.Is(err, keyring.ErrNotFound) {
		return model.Credentials{}, driven.ErrAccountNotFound
	}
	if err != nil {
		return model.Credentials{}, fmt.Errorf("reading keychain entry: %w", err)
	}
	return model.Credentials{Token: token, Secret: secret, Source: model.SourceKeychain}, nil
}

// SaveAccount stores or replaces the pair for name and updates the index.
func (s *KeyringStore) SaveAccount(name string, creds model.Credentials) error {
	if err := keyring.Set(s.service, tokenKey(name), creds.Token); err != nil {
		return fmt.Errorf("writing keychain entry: %w", err)
	}
	if err := keyring.Set(s.service, secretKey(name), creds.Secret); err != nil {
		return fmt.Errorf("writing keychain entry: %w", err)
	}

	names, err := s.index()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		names = append(names, name)
		return s.writeIndex(names)
	}
	return nil
}

// DeleteAccount removes the pair for name and updates the index.
func (s *KeyringStore) DeleteAccount(name string) error {
	names, err := s.index()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		return driven.ErrAccountNotFound
	}

	if err := keyring.Delete(s.service, tokenKey(name)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting keychain entry: %w", err)
	}
	if err := keyring.Delete(s.service, secretKey(name)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting keychain entry: %w", err)
	}

	names = slices.DeleteFunc(names, func(n string) bool { return n == name })
	if len(names) == 0 {
		if err := keyring.Delete(s.service, accountIndexKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("deleting keychain account index: %w", err)
		}
		return nil
	}
	return s.writeIndex(names)
}
