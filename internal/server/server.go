// Package server exposes the ledger over JSON/HTTP. It is a thin transport
// layer: handlers validate input, call the service, and serialize the
// result; all bookkeeping lives in the engine behind the service.
package server

import (
	"net/http"

	"github.com/mkhuang/giftledger/internal/auth"
	"github.com/mkhuang/giftledger/internal/backup"
	"github.com/mkhuang/giftledger/internal/metrics"
	"github.com/mkhuang/giftledger/internal/middleware"
	"github.com/mkhuang/giftledger/internal/service"
)

// Server holds the handlers' collaborators.
type Server struct {
	svc     *service.LedgerService
	backups *backup.Manager

	// authn and tokens are nil when no passphrase is configured; the API
	// then runs open, which is the normal mode on a private device.
	authn  *auth.PassphraseAuthenticator
	tokens *auth.JWTManager
}

// New creates a Server. authn and tokens may both be nil to disable auth.
func New(svc *service.LedgerService, backups *backup.Manager, authn *auth.PassphraseAuthenticator, tokens *auth.JWTManager) *Server {
	return &Server{svc: svc, backups: backups, authn: authn, tokens: tokens}
}

// Router builds the full HTTP handler chain.
func (s *Server) Router() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /ledger", s.handleLedger)
	api.HandleFunc("GET /people", s.handlePeople)
	api.HandleFunc("GET /people/resolve", s.handleResolvePerson)
	api.HandleFunc("GET /transactions", s.handleTransactions)
	api.HandleFunc("POST /transactions", s.handleAddTransaction)
	api.HandleFunc("PUT /transactions/{id}", s.handleUpdateTransaction)
	api.HandleFunc("GET /backup", s.handleExportBackup)
	api.HandleFunc("POST /backup/import", s.handleImportBackup)

	var protected http.Handler = api
	if s.tokens != nil {
		protected = middleware.RequireAuth(s.tokens)(api)
	}

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", protected))
	// The session endpoint stays outside the auth gate.
	root.HandleFunc("POST /api/v1/auth/session", s.handleSession)
	root.HandleFunc("GET /health", s.handleHealth)
	root.Handle("GET /metrics", metrics.Handler())

	return middleware.Logging(middleware.CORS(metrics.Instrument(root)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
