package api

import (
	"net/http"

	"github.com/jonesrussell/pageserve/internal/archive"
	"github.com/jonesrussell/pageserve/internal/config/server"
	"github.com/jonesrussell/pageserve/internal/logger"
)

// NewHTTPServer builds the HTTP server around the configured router.
// The caller owns the server lifecycle (ListenAndServe, Shutdown).
func NewHTTPServer(log logger.Interface, cfg *server.Config, registry *archive.Registry) *http.Server {
	router := SetupRouter(log, registry)

	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
