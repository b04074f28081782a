package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/domenectl/domenectl/internal/adapter/driven/auditlog"
	"github.com/domenectl/domenectl/internal/adapter/driven/credstore"
	"github.com/domenectl/domenectl/internal/adapter/driven/domeneshop"
	"github.com/domenectl/domenectl/internal/adapter/driven/ipecho"
	"github.com/domenectl/domenectl/internal/adapter/driving/web"
	"github.com/domenectl/domenectl/internal/application"
	"github.com/domenectl/domenectl/internal/config"
	"github.com/domenectl/domenectl/internal/domain/model"
	"github.com/domenectl/domenectl/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Refuse to serve the GUI on anything but loopback: the API is
	// unauthenticated beyond the registrar credentials it fronts.
	if err := requireLoopback(cfg.ListenAddr); err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"api_url", cfg.APIBaseURL,
		"audit_log", cfg.AuditLogPath,
	)

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Wire driven adapters.
	var keyring *credstore.KeyringStore
	if store := credstore.NewKeyringStore(); store.Available() {
		keyring = store
	}
	resolver := credstore.NewResolver(keyring, credstore.NewFileStore(cfg.CredentialsFile))
	audit := auditlog.New(cfg.AuditLogPath, slog.Default())
	publicIP := ipecho.New(cfg.IPEchoURL)

	newClient := func(creds model.Credentials) driven.RegistrarClient {
		return domeneshop.NewClientWithBaseURL(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.APIBaseURL,
			creds,
		)
	}

	// 5. Resolve startup credentials (may fail: the GUI then starts signed
	// out and the user logs in through the browser).
	var client driven.RegistrarClient
	var account string
	var source model.CredentialSource
	if creds, err := resolver.Resolve(""); err == nil {
		client = newClient(creds)
		source = creds.Source
		slog.Info("registrar client created", "source", creds.Source)
	} else {
		slog.Info("no credentials resolved at startup, sign in via the GUI", "reason", err)
	}
	provider := application.NewClientProvider(client, account, source)

	// 6. Wire the handler and route table.
	accounts := application.NewAccountService(resolver, audit, newClient)
	handler := web.NewHandler(provider, resolver, accounts, newClient, publicIP, audit, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           web.NewServeMux(handler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// requireLoopback rejects listen addresses that would expose the GUI beyond
// this machine.
func requireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("listen address %q is not loopback; the GUI must stay local", addr)
	}
	return nil
}
