package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/service/backup"
)

// backupService defines the minimal interface needed by BackupHandler.
type backupService interface {
	Get(ctx context.Context, backupID uuid.UUID) (*backup.GetResult, error)
	Stat(ctx context.Context, backupID uuid.UUID) (*domain.BackupFile, error)
	Delete(ctx context.Context, backupID uuid.UUID) error
	CleanupExpired(ctx context.Context) (*backup.CleanupResult, error)
}

// BackupHandler serves backup REST endpoints.
type BackupHandler struct {
	svc backupService
	log *slog.Logger
}

// NewBackupHandler creates a BackupHandler.
func NewBackupHandler(svc backupService, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{svc: svc, log: logger.With("handler", "backup")}
}

type backupMetaResponse struct {
	BackupID       string     `json:"backup_id"`
	Filename       string     `json:"filename"`
	OriginalSize   int64      `json:"original_size"`
	CompressedSize int64      `json:"compressed_size"`
	Compression    string     `json:"compression"`
	Status         string     `json:"status"`
	RetentionDays  int        `json:"retention_days"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	AccessCount    int        `json:"access_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

type cleanupResponse struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// Get handles GET /api/backups/{id}. It returns backup metadata without
// the stored content.
func (h *BackupHandler) Get(w http.ResponseWriter, r *http.Request) {
	backupID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	meta, err := h.svc.Stat(r.Context(), backupID)
	if err != nil {
		writeServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, backupMetaResponse{
		BackupID:       meta.BackupID.String(),
		Filename:       meta.Filename,
		OriginalSize:   meta.OriginalSize,
		CompressedSize: meta.CompressedSize,
		Compression:    meta.CompressionType.String(),
		Status:         meta.Status.String(),
		RetentionDays:  meta.RetentionDays,
		ExpiresAt:      meta.ExpiresAt,
		AccessCount:    meta.AccessCount,
		CreatedAt:      meta.CreatedAt,
	})
}

// Download handles GET /api/backups/{id}/download. The content is
// decompressed and integrity-checked before serving.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	backupID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Get(r.Context(), backupID)
	if err != nil {
		writeServiceError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Meta.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Content) //nolint:errcheck
}

// Delete handles DELETE /api/backups/{id}.
func (h *BackupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	backupID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), backupID); err != nil {
		writeServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Cleanup handles POST /api/backups/cleanup. It removes all backups
// past their retention expiry.
func (h *BackupHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CleanupExpired(r.Context())
	if err != nil {
		writeServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cleanupResponse{
		Deleted: result.Deleted,
		Failed:  result.Failed,
	})
}

func (h *BackupHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	backupID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup id")
		return uuid.Nil, false
	}
	return backupID, true
}
