package http

import (
	"crypto/tls"
	"net/http"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/config"
)

// NewServer собирает http.Server с таймаутами и TLS из конфига.
//
// Сертификаты не загружаются: их передаём в ListenAndServeTLS.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	if cfg.TLS.Enabled {
		minVersion := uint16(tls.VersionTLS12)
		if cfg.TLS.MinVersion == "1.3" {
			minVersion = tls.VersionTLS13
		}
		srv.TLSConfig = &tls.Config{MinVersion: minVersion}
	}
	return srv
}
