package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mkhuang/giftledger/internal/auth"
	"github.com/mkhuang/giftledger/internal/backup"
	"github.com/mkhuang/giftledger/internal/server"
	"github.com/mkhuang/giftledger/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, c, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()
		slog.Info("storage initialized", "database", cfg.DBPath, "codec", cfg.Codec)

		var (
			authn  *auth.PassphraseAuthenticator
			tokens *auth.JWTManager
		)
		if cfg.AuthPassphraseHash != "" {
			authn = auth.NewPassphraseAuthenticator(cfg.AuthPassphraseHash)
			tokens = auth.NewJWTManager(cfg.TokenSecret, time.Duration(cfg.TokenTTL))
			slog.Info("passphrase auth enabled", "token_ttl", time.Duration(cfg.TokenTTL).String())
		}

		svc := service.NewLedgerService(store)
		backups := backup.NewManager(store, c)
		srv := server.New(svc, backups, authn, tokens)

		// h2c allows HTTP/2 without TLS on the local port.
		handler := h2c.NewHandler(srv.Router(), &http2.Server{})

		httpServer := &http.Server{
			Addr:              cfg.Listen,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		slog.Info("server starting", "address", cfg.Listen)
		return httpServer.ListenAndServe()
	},
}
