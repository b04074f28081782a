package credstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/natefinch/atomic"

	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// fileVersion is the current on-disk format. Version 2 holds named
// accounts; the legacy format (a bare token/secret pair with no version
// field) is still readable and is upgraded on the first write.
const fileVersion = 2

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*FileStore)(nil)

// FileStore persists named accounts in a single JSON file with owner-only
// permissions. Writes replace the file atomically so an interrupted write
// never leaves a half-written file behind.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given path. The file and its
// parent directory are created lazily on the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Exists reports whether the backing file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

type fileAccount struct {
	Token  string `json:"token"`
	Secret string `json:"secret"`
}

type fileData struct {
	Version  int                    `json:"version,omitempty"`
	Accounts map[string]fileAccount `json:"accounts,omitempty"`

	// Legacy single-pair fields, read-only.
	Token  string `json:"token,omitempty"`
	Secret string `json:"secret,omitempty"`
}

func (d fileData) legacy() bool {
	return d.Version == 0 && d.Token != "" && d.Secret != ""
}

// read loads the file. A missing or unparseable file reads as empty: the
// store is a fallback source, not an authority worth failing over.
func (s *FileStore) read() fileData {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fileData{}
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fileData{}
	}
	return data
}

// write replaces the file atomically and restores owner-only permissions.
func (s *FileStore) write(data fileData) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials file: %w", err)
	}
	raw = append(raw, '\n')

	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("restricting credentials file permissions: %w", err)
	}
	return nil
}

// upgraded returns data in version-2 form, folding a legacy pair into the
// account named "Standard".
func upgraded(data fileData) fileData {
	if data.legacy() {
		return fileData{
			Version:  fileVersion,
			Accounts: map[string]fileAccount{legacyAccountName: {Token: data.Token, Secret: data.Secret}},
		}
	}
	if data.Accounts == nil {
		data.Accounts = map[string]fileAccount{}
	}
	data.Version = fileVersion
	data.Token = ""
	data.Secret = ""
	return data
}

// ListAccounts returns the stored account names, sorted. A legacy file
// reports the single account name "Standard".
func (s *FileStore) ListAccounts() ([]string, error) {
	data := s.read()
	if data.legacy() {
		return []string{legacyAccountName}, nil
	}
	names := make([]string, 0, len(data.Accounts))
	for name := range data.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadAccount returns the pair stored under name.
func (s *FileStore) LoadAccount(name string) (model.Credentials, error) {
	data := s.read()
	if data.legacy() && name == legacyAccountName {
		return model.Credentials{Token: data.Token, Secret: data.Secret, Source: model.SourceFile}, nil
	}
	acct, ok := data.Accounts[name]
	if !ok {
		return model.Credentials{}, driven.ErrAccountNotFound
	}
	return model.Credentials{Token: acct.Token, Secret: acct.Secret, Source: model.SourceFile}, nil
}

// SaveAccount stores or replaces the pair for name, upgrading a legacy file
// to the versioned format in the same write.
func (s *FileStore) SaveAccount(name string, creds model.Credentials) error {
	data := upgraded(s.read())
	data.Accounts[name] = fileAccount{Token: creds.Token, Secret: creds.Secret}
	return s.write(data)
}

// DeleteAccount removes the pair for name. When the last account goes, the
// file itself is removed.
func (s *FileStore) DeleteAccount(name string) error {
	data := upgraded(s.read())
	if _, ok := data.Accounts[name]; !ok {
		return driven.ErrAccountNotFound
	}
	delete(data.Accounts, name)
	if len(data.Accounts) == 0 {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing credentials file: %w", err)
		}
		return nil
	}
	return s.write(data)
}
