package web

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/domenectl/domenectl/internal/domain/model"
)

// NewServeMux builds the full route table wrapped with the middleware chain:
// recovery innermost so panics are caught before logging, CSRF enforcement
// on every mutating method.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static frontend (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /", http.FileServerFS(staticFS))

	mux.HandleFunc("GET /api/csrf-token", h.CSRFToken)
	mux.HandleFunc("GET /api/auth/status", h.AuthStatus)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/accounts", h.ListAccounts)

	mux.HandleFunc("GET /api/domains", h.ListDomains)
	mux.HandleFunc("GET /api/domains/{id}", h.GetDomain)
	mux.HandleFunc("GET /api/domains/{id}/dns", h.ListDNSRecords)
	mux.HandleFunc("POST /api/domains/{id}/dns", h.CreateDNSRecord)
	mux.HandleFunc("GET /api/domains/{id}/dns/{recordID}", h.GetDNSRecord)
	mux.HandleFunc("PUT /api/domains/{id}/dns/{recordID}", h.UpdateDNSRecord)
	mux.HandleFunc("DELETE /api/domains/{id}/dns/{recordID}", h.DeleteDNSRecord)

	mux.HandleFunc("GET /api/domains/{id}/forwards", h.ListForwards)
	mux.HandleFunc("POST /api/domains/{id}/forwards", h.CreateForward)
	mux.HandleFunc("GET /api/domains/{id}/forwards/{host}", h.GetForward)
	mux.HandleFunc("PUT /api/domains/{id}/forwards/{host}", h.UpdateForward)
	mux.HandleFunc("DELETE /api/domains/{id}/forwards/{host}", h.DeleteForward)

	mux.HandleFunc("GET /api/invoices", h.ListInvoices)
	mux.HandleFunc("GET /api/invoices/{id}", h.GetInvoice)
	mux.HandleFunc("POST /api/ddns", h.UpdateDDNS)
	mux.HandleFunc("GET /api/audit", h.AuditLog)
	mux.HandleFunc("GET /api/health", h.Health)

	wrapped := csrfMiddleware(h, mux)
	wrapped = recoveryMiddleware(logger, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// csrfMiddleware rejects mutating requests whose X-CSRF-Token header does
// not match the token cookie. Reads pass through untouched.
func csrfMiddleware(h *Handler, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			if !validateCSRF(r) {
				h.audit.Record(model.AuditCSRFFailure, "addr", clientAddr(r), "path", r.URL.Path)
				writeError(w, http.StatusForbidden, "missing or invalid CSRF token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
