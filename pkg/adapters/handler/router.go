package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/wadjakorntonsri/go-shortlink/pkg/config"
	"github.com/wadjakorntonsri/go-shortlink/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, log *logrus.Logger, service ports.LinkService) http.Handler {
	h := NewHTTPHandler(service, cfg.BaseURL, log)
	mw := NewMiddleware(log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /{$}", h.Create)

	// Short-code routes are registered with and without a trailing slash,
	// matching the paths the previous deployment answered.
	mux.HandleFunc("GET /{code}", h.Redirect)
	mux.HandleFunc("GET /{code}/{$}", h.Redirect)
	mux.HandleFunc("GET /{code}/delete", h.DeletionForm)
	mux.HandleFunc("GET /{code}/delete/{$}", h.DeletionForm)
	mux.HandleFunc("POST /{code}/delete", h.ConfirmDeletion)
	mux.HandleFunc("POST /{code}/delete/{$}", h.ConfirmDeletion)
	mux.HandleFunc("GET /{code}/stats", h.Stats)
	mux.HandleFunc("GET /{code}/stats/{$}", h.Stats)

	return mw.Recovery(mw.Logging(mux))
}
