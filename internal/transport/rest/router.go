package rest

import (
	"log/slog"
	"net/http"

	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/transport/middleware"
)

// Handlers bundles the REST handlers mounted by the router.
type Handlers struct {
	Health *HealthHandler
	Export *ExportHandler
	Import *ImportHandler
	Backup *BackupHandler
}

// NewRouter builds the HTTP routing table and wraps it with the shared
// middleware chain (request id, panic recovery, request logging, CORS).
func NewRouter(h Handlers, cors config.CORSConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("POST /api/export/{entity}", h.Export.Export)
	mux.HandleFunc("POST /api/export/{entity}/validate", h.Export.Validate)
	mux.HandleFunc("GET /api/export/{id}/download", h.Export.Download)

	mux.HandleFunc("POST /api/import", h.Import.Upload)
	mux.HandleFunc("GET /api/import/{id}/progress", h.Import.Progress)

	mux.HandleFunc("GET /api/backups/{id}", h.Backup.Get)
	mux.HandleFunc("GET /api/backups/{id}/download", h.Backup.Download)
	mux.HandleFunc("DELETE /api/backups/{id}", h.Backup.Delete)
	mux.HandleFunc("POST /api/backups/cleanup", h.Backup.Cleanup)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cors),
	)

	return chain(mux)
}
