package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/service/export"
)

// exportService defines the minimal interface needed by ExportHandler.
type exportService interface {
	Export(ctx context.Context, in export.Input) (*export.Result, error)
	Validate(ctx context.Context, in export.Input) (*export.ValidationResult, error)
	Download(ctx context.Context, exportID uuid.UUID) (*export.Download, error)
}

// ExportHandler serves export REST endpoints.
type ExportHandler struct {
	svc exportService
	cfg config.ExportConfig
	log *slog.Logger
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(svc exportService, cfg config.ExportConfig, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		svc: svc,
		cfg: cfg,
		log: logger.With("handler", "export"),
	}
}

type exportRequest struct {
	Format           string             `json:"format"`
	Filters          export.FilterInput `json:"filters"`
	IncludeRelations bool               `json:"include_relations"`
	IncludeMetadata  bool               `json:"include_metadata"`
	Limit            int                `json:"limit"`
}

type exportResponse struct {
	ExportID    string     `json:"export_id"`
	Filename    string     `json:"filename"`
	Format      string     `json:"format"`
	RecordCount int        `json:"record_count"`
	FileSize    int64      `json:"file_size"`
	Content     string     `json:"content,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	Warnings    []string   `json:"warnings,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type validateResponse struct {
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	EstimatedCount int      `json:"estimated_count"`
	EstimatedSize  int64    `json:"estimated_size"`
}

// Export handles POST /api/export/{entity}.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Export(r.Context(), in)
	if err != nil {
		writeServiceError(h.log, w, r, err)
		return
	}

	resp := exportResponse{
		ExportID:    result.ExportID.String(),
		Filename:    result.Filename,
		Format:      result.Format.String(),
		RecordCount: result.RecordCount,
		FileSize:    result.FileSize,
		Warnings:    result.Warnings,
		ExpiresAt:   result.ExpiresAt,
	}

	// Small results are inlined; larger ones are served from the
	// archived backup via the download endpoint.
	if h.cfg.InlineThreshold > 0 && len(result.Content) <= h.cfg.InlineThreshold {
		resp.Content = result.Content
	} else {
		resp.DownloadURL = fmt.Sprintf("/api/export/%s/download", result.ExportID)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Validate handles POST /api/export/{entity}/validate. It runs the
// pre-flight checks without producing a file.
func (h *ExportHandler) Validate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Validate(r.Context(), in)
	if err != nil {
		writeServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:          result.Valid,
		Errors:         result.Errors,
		Warnings:       result.Warnings,
		EstimatedCount: result.EstimatedCount,
		EstimatedSize:  result.EstimatedSize,
	})
}

// Download handles GET /api/export/{id}/download.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	exportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid export id")
		return
	}

	dl, err := h.svc.Download(r.Context(), exportID)
	if err != nil {
		writeServiceError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", dl.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(dl.Content) //nolint:errcheck
}

func (h *ExportHandler) decodeInput(w http.ResponseWriter, r *http.Request) (export.Input, bool) {
	dt, ok := domain.ParseDataType(r.PathValue("entity"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown entity type: "+r.PathValue("entity"))
		return export.Input{}, false
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return export.Input{}, false
	}

	limit := req.Limit
	if limit <= 0 || limit > h.cfg.MaxRecords {
		limit = h.cfg.MaxRecords
	}

	return export.Input{
		DataType:         dt,
		Format:           domain.Format(strings.ToLower(req.Format)),
		Filters:          req.Filters,
		IncludeRelations: req.IncludeRelations,
		IncludeMetadata:  req.IncludeMetadata,
		Limit:            limit,
	}, true
}
