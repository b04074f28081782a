package model

// CredentialSource identifies where an active credential pair came from.
type CredentialSource string

const (
	SourceEnvironment CredentialSource = "environment"
	SourceKeychain    CredentialSource = "keychain"
	SourceFile        CredentialSource = "file"
	SourceInteractive CredentialSource = "interactive"
)

// Credentials is an API token/secret pair. Exactly one pair is active per
// invocation. The pair is sent as HTTP Basic auth to the registrar API and
// must never appear in logs or audit entries.
type Credentials struct {
	Token  string
	Secret string
	Source CredentialSource
}

// Complete reports whether both halves of the pair are present. A partially
// populated source (token without secret) counts as absent.
func (c Credentials) Complete() bool {
	return c.Token != "" && c.Secret != ""
}

// String redacts the pair so accidental %v formatting never leaks secrets.
func (c Credentials) String() string {
	return "credentials(" + string(c.Source) + ", redacted)"
}

// Account is a named credential pair in the local store. Names are unique
// within the store and only change by explicit user action.
type Account struct {
	Name        string
	Credentials Credentials
}
