package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mkhuang/giftledger/internal/ledger"
	"github.com/mkhuang/giftledger/internal/models"
)

// maxBodyBytes bounds request bodies; a full backup envelope of a personal
// ledger is far below this.
const maxBodyBytes = 8 << 20

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Ledger(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.svc.People(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, people)
}

func (s *Server) handleResolvePerson(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name query parameter required"))
		return
	}
	person, ok, err := s.svc.ResolvePerson(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "person": person})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.Transactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var draft models.TransactionDraft
	if err := decodeBody(w, r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	// Reject bad drafts at the transport boundary; the engine re-checks.
	if err := ledger.ValidateDraft(draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := s.svc.AddTransaction(r.Context(), draft)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var edited models.Transaction
	if err := decodeBody(w, r, &edited); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	edited.ID = r.PathValue("id")

	snap, err := s.svc.UpdateTransaction(r.Context(), edited)
	switch {
	case errors.Is(err, ledger.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case errors.Is(err, ledger.ErrInconsistentLedger):
		writeError(w, http.StatusConflict, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	dir, err := os.MkdirTemp("", "giftledger-export-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(dir)

	path, err := s.backups.Export(r.Context(), dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if path == "" {
		writeError(w, http.StatusNotFound, errors.New("nothing persisted yet"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	snap, err := s.backups.Restore(r.Context(), data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	slog.Info("ledger restored from backup")
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.authn == nil || s.tokens == nil {
		writeError(w, http.StatusNotFound, errors.New("authentication is not enabled"))
		return
	}

	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.authn.Authenticate(req.Passphrase); err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	token, err := s.tokens.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return io.ReadAll(r.Body)
}
