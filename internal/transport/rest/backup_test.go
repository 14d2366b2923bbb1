package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/service/backup"
)

type backupServiceMock struct {
	getFn     func(ctx context.Context, backupID uuid.UUID) (*backup.GetResult, error)
	statFn    func(ctx context.Context, backupID uuid.UUID) (*domain.BackupFile, error)
	deleteFn  func(ctx context.Context, backupID uuid.UUID) error
	cleanupFn func(ctx context.Context) (*backup.CleanupResult, error)
}

func (m *backupServiceMock) Get(ctx context.Context, backupID uuid.UUID) (*backup.GetResult, error) {
	return m.getFn(ctx, backupID)
}

func (m *backupServiceMock) Stat(ctx context.Context, backupID uuid.UUID) (*domain.BackupFile, error) {
	return m.statFn(ctx, backupID)
}

func (m *backupServiceMock) Delete(ctx context.Context, backupID uuid.UUID) error {
	return m.deleteFn(ctx, backupID)
}

func (m *backupServiceMock) CleanupExpired(ctx context.Context) (*backup.CleanupResult, error) {
	return m.cleanupFn(ctx)
}

func backupReq(method, path, id string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.SetPathValue("id", id)
	return req
}

func TestBackupHandler_GetMetadata(t *testing.T) {
	t.Parallel()

	backupID := uuid.New()
	expires := time.Now().Add(24 * time.Hour).UTC()
	svc := &backupServiceMock{
		statFn: func(_ context.Context, id uuid.UUID) (*domain.BackupFile, error) {
			if id != backupID {
				t.Errorf("backup id = %s, want %s", id, backupID)
			}
			return &domain.BackupFile{
				BackupID:        backupID,
				Filename:        "quotes_export.json",
				OriginalSize:    4096,
				CompressedSize:  512,
				CompressionType: domain.CompressionGzip,
				Status:          domain.BackupStored,
				RetentionDays:   30,
				ExpiresAt:       &expires,
				AccessCount:     3,
			}, nil
		},
	}
	h := NewBackupHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.Get(rec, backupReq(http.MethodGet, "/api/backups/"+backupID.String(), backupID.String()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp backupMetaResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BackupID != backupID.String() {
		t.Errorf("backup_id = %q, want %q", resp.BackupID, backupID)
	}
	if resp.Compression != "gzip" {
		t.Errorf("compression = %q, want gzip", resp.Compression)
	}
	if resp.CompressedSize != 512 {
		t.Errorf("compressed_size = %d, want 512", resp.CompressedSize)
	}
}

func TestBackupHandler_Download(t *testing.T) {
	t.Parallel()

	backupID := uuid.New()
	svc := &backupServiceMock{
		getFn: func(_ context.Context, _ uuid.UUID) (*backup.GetResult, error) {
			return &backup.GetResult{
				Content: []byte(`[{"content":"hello"}]`),
				Meta: &domain.BackupFile{
					BackupID: backupID,
					Filename: "quotes_export.json",
				},
			}, nil
		},
	}
	h := NewBackupHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.Download(rec, backupReq(http.MethodGet, "/api/backups/"+backupID.String()+"/download", backupID.String()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "quotes_export.json") {
		t.Errorf("content disposition = %q, want filename", cd)
	}
	if !strings.Contains(rec.Body.String(), "hello") {
		t.Error("expected decompressed content in body")
	}
}

func TestBackupHandler_DownloadCorrupted(t *testing.T) {
	t.Parallel()

	svc := &backupServiceMock{
		getFn: func(_ context.Context, id uuid.UUID) (*backup.GetResult, error) {
			return nil, fmt.Errorf("backup %s hash mismatch: %w", id, domain.ErrCorrupted)
		},
	}
	h := NewBackupHandler(svc, testLogger())

	id := uuid.New().String()
	rec := httptest.NewRecorder()
	h.Download(rec, backupReq(http.MethodGet, "/api/backups/"+id+"/download", id))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "corrupted") {
		t.Errorf("body = %q, want corruption message", rec.Body)
	}
}

func TestBackupHandler_NotFound(t *testing.T) {
	t.Parallel()

	svc := &backupServiceMock{
		statFn: func(_ context.Context, _ uuid.UUID) (*domain.BackupFile, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewBackupHandler(svc, testLogger())

	id := uuid.New().String()
	rec := httptest.NewRecorder()
	h.Get(rec, backupReq(http.MethodGet, "/api/backups/"+id, id))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBackupHandler_BadID(t *testing.T) {
	t.Parallel()

	h := NewBackupHandler(&backupServiceMock{}, testLogger())

	rec := httptest.NewRecorder()
	h.Get(rec, backupReq(http.MethodGet, "/api/backups/nope", "nope"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBackupHandler_Delete(t *testing.T) {
	t.Parallel()

	backupID := uuid.New()
	var deleted uuid.UUID
	svc := &backupServiceMock{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	h := NewBackupHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.Delete(rec, backupReq(http.MethodDelete, "/api/backups/"+backupID.String(), backupID.String()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if deleted != backupID {
		t.Errorf("deleted id = %s, want %s", deleted, backupID)
	}
}

func TestBackupHandler_Cleanup(t *testing.T) {
	t.Parallel()

	svc := &backupServiceMock{
		cleanupFn: func(_ context.Context) (*backup.CleanupResult, error) {
			return &backup.CleanupResult{Deleted: 4, Failed: 1}, nil
		},
	}
	h := NewBackupHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/backups/cleanup", nil)
	rec := httptest.NewRecorder()

	h.Cleanup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp cleanupResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Deleted != 4 || resp.Failed != 1 {
		t.Errorf("cleanup = %+v, want deleted=4 failed=1", resp)
	}
}
