package api

import (
	"net/http"
	"time"

	"github.com/angelmondragon/speakeasy-backend/pkg/config"
)

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(cfg config.AppConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
