// Package cli implements the command-line driving adapter: a cobra command
// tree that translates validated flags and arguments into registrar API
// calls and renders the results as tables or raw JSON.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/term"

	"github.com/domenectl/domenectl/internal/adapter/driven/auditlog"
	"github.com/domenectl/domenectl/internal/adapter/driven/credstore"
	"github.com/domenectl/domenectl/internal/adapter/driven/domeneshop"
	"github.com/domenectl/domenectl/internal/adapter/driven/ipecho"
	"github.com/domenectl/domenectl/internal/application"
	"github.com/domenectl/domenectl/internal/config"
	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

// App carries the wiring every command needs. Dependencies are injected so
// tests can substitute fakes for the network and the terminal.
type App struct {
	cfg       *config.Config
	resolver  *credstore.Resolver
	audit     driven.AuditLog
	accounts  *application.AccountService
	newClient application.ClientFactory
	publicIP  driven.PublicIPResolver

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// interactive allows the credential prompt fallback. False in CI and
	// whenever stdin is not a terminal.
	interactive bool

	// Persistent flag targets.
	jsonOut bool
	account string
}

// NewApp builds the production wiring from config.
func NewApp(cfg *config.Config) *App {
	var kr *credstore.KeyringStore
	if store := credstore.NewKeyringStore(); store.Available() {
		kr = store
	}
	resolver := credstore.NewResolver(kr, credstore.NewFileStore(cfg.CredentialsFile))
	audit := auditlog.New(cfg.AuditLogPath, defaultLogger())

	newClient := func(creds model.Credentials) driven.RegistrarClient {
		return domeneshop.NewClientWithBaseURL(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.APIBaseURL,
			creds,
		)
	}

	return &App{
		cfg:         cfg,
		resolver:    resolver,
		audit:       audit,
		accounts:    application.NewAccountService(resolver, audit, newClient),
		newClient:   newClient,
		publicIP:    ipecho.New(cfg.IPEchoURL),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// client resolves the active credential pair and returns an authenticated
// registrar client. When every static source is exhausted and the session
// is interactive, the user is prompted once and offered persistence; in a
// non-interactive context the credentials_missing error propagates as is.
func (a *App) client(ctx context.Context) (driven.RegistrarClient, error) {
	creds, err := a.resolver.Resolve(a.account)
	if err == nil {
		return a.newClient(creds), nil
	}

	var typed *model.Error
	if !a.interactive || a.account != "" || !errors.As(err, &typed) || typed.Kind != model.KindCredentialsMissing {
		return nil, err
	}

	return a.promptAndVerify(ctx)
}

// promptAndVerify asks for a pair on the terminal, verifies it with a live
// domains call and optionally persists it as a named account.
func (a *App) promptAndVerify(ctx context.Context) (driven.RegistrarClient, error) {
	fmt.Fprintln(a.stdout, "No API credentials found.")
	fmt.Fprintln(a.stdout, "Generate a token and secret at: https://domene.shop/admin?view=api")
	fmt.Fprintln(a.stdout)

	creds, err := promptCredentials(a.stdin, a.stdout)
	if err != nil {
		return nil, err
	}

	domains, err := a.accounts.Verify(ctx, creds)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.stdout, "\nAuthentication successful (%d domains).\n", domains)

	if confirm(a.stdin, a.stdout, "Save these credentials for future use?") {
		name := promptLine(a.stdin, a.stdout, "Account name", "Standard")
		storage, err := a.resolver.Save(name, creds, true)
		if err != nil {
			fmt.Fprintf(a.stderr, "could not save credentials: %v\n", err)
		} else {
			a.audit.Record(model.AuditAccountCreated, "account", name, "storage", string(storage))
			a.audit.Record(model.AuditCredentialsSaved, "storage", string(storage))
			fmt.Fprintf(a.stdout, "Account %q saved (%s).\n", name, storage)
		}
	}

	return a.newClient(creds), nil
}

// confirmDestructive gates a delete. assumeYes skips the prompt (the --yes
// override). Declining aborts with user_cancelled before any network call.
func (a *App) confirmDestructive(assumeYes bool, summary string) error {
	if assumeYes {
		return nil
	}
	fmt.Fprintln(a.stdout, summary)
	if !confirm(a.stdin, a.stdout, "Are you sure?") {
		return model.NewError(model.KindUserCancelled, "cancelled")
	}
	return nil
}

// reportError prints err on stderr in the active output mode: free text for
// humans, a stable {error, kind} object in JSON mode.
func (a *App) reportError(err error) {
	if a.jsonOut {
		printJSON(a.stderr, map[string]string{
			"error": err.Error(),
			"kind":  string(model.KindOf(err)),
		})
		return
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
}
