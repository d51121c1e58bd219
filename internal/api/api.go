// Package api provides the HTTP surface of the timing board: auth, zones,
// profiles, image uploads, and the change-notification event stream.
package api

import (
	"log/slog"

	"github.com/davisrp/timingboard/internal/auth"
	"github.com/davisrp/timingboard/internal/blob"
	"github.com/davisrp/timingboard/internal/directory"
	"github.com/davisrp/timingboard/internal/notify"
	"github.com/davisrp/timingboard/internal/storage"
)

// Handler provides the API endpoints.
type Handler struct {
	store    storage.Storage
	dir      *directory.Directory
	auth     *auth.Service
	tokens   *auth.TokenIssuer
	blobs    blob.Store
	broker   *notify.Broker
	logger   *slog.Logger
	logLevel *slog.LevelVar
}

// NewHandler creates an API handler.
func NewHandler(store storage.Storage, dir *directory.Directory, authSvc *auth.Service, tokens *auth.TokenIssuer, blobs blob.Store, broker *notify.Broker, logLevel *slog.LevelVar, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}

	return &Handler{
		store:    store,
		dir:      dir,
		auth:     authSvc,
		tokens:   tokens,
		blobs:    blobs,
		broker:   broker,
		logger:   logger,
		logLevel: logLevel,
	}
}
