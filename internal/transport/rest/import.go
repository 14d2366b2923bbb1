package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/progress"
	"github.com/quotehub/quotehub-backend/internal/service/importer"
)

// importService defines the minimal interface needed by ImportHandler.
type importService interface {
	Run(ctx context.Context, in importer.Input) (*importer.Summary, error)
	Start(in importer.Input) uuid.UUID
	GetProgress(importID uuid.UUID) (progress.State, bool)
}

// ImportHandler serves import REST endpoints.
type ImportHandler struct {
	svc importService
	cfg config.ImportConfig
	log *slog.Logger
}

// NewImportHandler creates an ImportHandler.
func NewImportHandler(svc importService, cfg config.ImportConfig, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		svc: svc,
		cfg: cfg,
		log: logger.With("handler", "import"),
	}
}

type importStartedResponse struct {
	ImportID string `json:"import_id"`
	Status   string `json:"status"`
}

// Upload handles POST /api/import. The body is multipart/form-data with
// a required "file" part (single data file or zip bundle), an optional
// "options" part carrying an importer.Options JSON document, and an
// optional "entity" field hinting the entity type of an opaquely named
// single file. With ?async=true the job runs in the background and the
// response carries only the import id for progress polling.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	var opts importer.Options
	if raw := r.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			writeError(w, http.StatusBadRequest, "invalid options: "+err.Error())
			return
		}
	}

	in := importer.Input{
		Filename: header.Filename,
		Content:  content,
		Options:  opts,
	}
	if hint := r.FormValue("entity"); hint != "" {
		dt, ok := domain.ParseDataType(hint)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown entity type: "+hint)
			return
		}
		in.Entity = dt
	}

	if r.URL.Query().Get("async") == "true" {
		importID := h.svc.Start(in)
		writeJSON(w, http.StatusAccepted, importStartedResponse{
			ImportID: importID.String(),
			Status:   domain.ImportPending.String(),
		})
		return
	}

	summary, err := h.svc.Run(r.Context(), in)
	if err != nil {
		writeServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Progress handles GET /api/import/{id}/progress.
func (h *ImportHandler) Progress(w http.ResponseWriter, r *http.Request) {
	importID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid import id")
		return
	}

	state, ok := h.svc.GetProgress(importID)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, state)
}
