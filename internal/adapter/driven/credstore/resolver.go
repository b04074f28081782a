package credstore

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// Resolver determines the active credential pair for an invocation by
// checking sources in fixed priority order: environment, keychain, file.
// The first fully populated source wins. The keychain may be nil when no
// usable backend exists.
type Resolver struct {
	env     EnvSource
	keyring *KeyringStore
	file    *FileStore
}

// NewResolver wires the three sources. Pass keyring == nil to disable the
// keychain source entirely.
func NewResolver(keyring *KeyringStore, file *FileStore) *Resolver {
	return &Resolver{keyring: keyring, file: file}
}

// stores returns the persistent stores in priority order.
func (r *Resolver) stores() []driven.CredentialStore {
	var out []driven.CredentialStore
	if r.keyring != nil {
		out = append(out, r.keyring)
	}
	out = append(out, r.file)
	return out
}

// Resolve returns the active pair. When account is empty, the environment
// wins outright; otherwise a single stored account is auto-selected. When
// account names a stored account, the environment is still consulted first
// (it is an explicit per-invocation override), then the stores.
// Exhausting every source yields a credentials_missing error that tells the
// user what to do, never a crash.
func (r *Resolver) Resolve(account string) (model.Credentials, error) {
	if creds, ok := r.env.Resolve(); ok {
		return creds, nil
	}

	if account != "" {
		for _, store := range r.stores() {
			creds, err := store.LoadAccount(account)
			if err == nil && creds.Complete() {
				return creds, nil
			}
			if err != nil && !errors.Is(err, driven.ErrAccountNotFound) {
				return model.Credentials{}, err
			}
		}
		names, _ := r.ListAccounts()
		if len(names) == 0 {
			return model.Credentials{}, model.NewError(model.KindCredentialsMissing,
				"account %q not found and no accounts are stored; run 'domenectl configure'", account)
		}
		return model.Credentials{}, model.NewError(model.KindCredentialsMissing,
			"account %q not found (available: %s)", account, strings.Join(names, ", "))
	}

	names, err := r.ListAccounts()
	if err != nil {
		return model.Credentials{}, err
	}
	switch len(names) {
	case 0:
		return model.Credentials{}, model.NewError(model.KindCredentialsMissing,
			"no credentials found: set %s and %s, or run 'domenectl configure'", EnvToken, EnvSecret)
	case 1:
		return r.Resolve(names[0])
	default:
		return model.Credentials{}, model.NewError(model.KindCredentialsMissing,
			"multiple accounts stored, select one with --account (available: %s)", strings.Join(names, ", "))
	}
}

// ListAccounts returns the union of account names across the stores, sorted.
func (r *Resolver) ListAccounts() ([]string, error) {
	seen := map[string]bool{}
	for _, store := range r.stores() {
		names, err := store.ListAccounts()
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			seen[n] = true
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// Save persists a named pair, preferring the keychain when it is available
// and preferred, falling back to the file. Returns where the pair landed.
func (r *Resolver) Save(name string, creds model.Credentials, preferKeychain bool) (model.CredentialSource, error) {
	if name == "" {
		return "", model.NewError(model.KindValidation, "account name cannot be empty")
	}
	if preferKeychain && r.keyring != nil {
		if err := r.keyring.SaveAccount(name, creds); err == nil {
			return model.SourceKeychain, nil
		}
		// Keychain write failed; fall through to the file rather than lose
		// the pair the user just entered.
	}
	if err := r.file.SaveAccount(name, creds); err != nil {
		return "", err
	}
	return model.SourceFile, nil
}

// Delete removes the named account from every store that has it.
func (r *Resolver) Delete(name string) error {
	deleted := false
	for _, store := range r.stores() {
		err := store.DeleteAccount(name)
		if err == nil {
			deleted = true
			continue
		}
		if !errors.Is(err, driven.ErrAccountNotFound) {
			return err
		}
	}
	if !deleted {
		return driven.ErrAccountNotFound
	}
	return nil
}

// DeleteAll removes every stored account from every store.
func (r *Resolver) DeleteAll() (int, error) {
	names, err := r.ListAccounts()
	if err != nil {
		return 0, err
	}
	for _, name := range names {
		if err := r.Delete(name); err != nil {
			return 0, fmt.Errorf("deleting account %q: %w", name, err)
		}
	}
	return len(names), nil
}

// Rename moves an account to a new name within whichever store holds it.
func (r *Resolver) Rename(oldName, newName string) error {
	if newName == "" {
		return model.NewError(model.KindValidation, "new account name cannot be empty")
	}
	if oldName == newName {
		return nil
	}

	names, err := r.ListAccounts()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == newName {
			return model.NewError(model.KindValidation, "account %q already exists", newName)
		}
	}

	for _, store := range r.stores() {
		creds, err := store.LoadAccount(oldName)
		if errors.Is(err, driven.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := store.SaveAccount(newName, creds); err != nil {
			return err
		}
		return store.DeleteAccount(oldName)
	}
	return driven.ErrAccountNotFound
}

// MigrateFileToKeychain moves every file-stored account into the keychain
// and removes them from the file. Returns the number migrated.
func (r *Resolver) MigrateFileToKeychain() (int, error) {
	if r.keyring == nil {
		return 0, model.NewError(model.KindValidation, "no usable keychain backend on this system")
	}

	names, err := r.file.ListAccounts()
	if err != nil {
		return 0, err
	}
	migrated := 0
	for _, name := range names {
		creds, err := r.file.LoadAccount(name)
		if err != nil {
			continue
		}
		if err := r.keyring.SaveAccount(name, creds); err != nil {
			return migrated, fmt.Errorf("migrating account %q: %w", name, err)
		}
		if err := r.file.DeleteAccount(name); err != nil {
			return migrated, fmt.Errorf("removing migrated account %q from file: %w", name, err)
		}
		migrated++
	}
	return migrated, nil
}

// Info is a storage status report for 'configure --status' and the GUI.
type Info struct {
	StorageType      string   `json:"storage_type"`
	EnvConfigured    bool     `json:"env_configured"`
	KeyringAvailable bool     `json:"keyring_available"`
	FileExists       bool     `json:"file_exists"`
	FilePath         string   `json:"file_path"`
	Accounts         []string `json:"accounts"`
}

// Info reports which sources are populated and which one is active.
func (r *Resolver) Info() Info {
	info := Info{
		KeyringAvailable: r.keyring != nil,
		FileExists:       r.file.Exists(),
		FilePath:         r.file.Path(),
		Accounts:         []string{},
	}
	if names, err := r.ListAccounts(); err == nil {
		info.Accounts = names
	}
	if _, ok := r.env.Resolve(); ok {
		info.EnvConfigured = true
	}

	switch {
	case info.EnvConfigured:
		info.StorageType = string(model.SourceEnvironment)
	case r.keyring != nil && hasAccounts(r.keyring):
		info.StorageType = string(model.SourceKeychain)
	case info.FileExists:
		info.StorageType = string(model.SourceFile)
	default:
		info.StorageType = "none"
	}
	return info
}

func hasAccounts(store driven.CredentialStore) bool {
	names, err := store.ListAccounts()
	return err == nil && len(names) > 0
}
