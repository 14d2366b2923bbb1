package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/progress"
	"github.com/quotehub/quotehub-backend/internal/service/importer"
)

type importServiceMock struct {
	runFn      func(ctx context.Context, in importer.Input) (*importer.Summary, error)
	startFn    func(in importer.Input) uuid.UUID
	progressFn func(importID uuid.UUID) (progress.State, bool)
}

func (m *importServiceMock) Run(ctx context.Context, in importer.Input) (*importer.Summary, error) {
	return m.runFn(ctx, in)
}

func (m *importServiceMock) Start(in importer.Input) uuid.UUID {
	return m.startFn(in)
}

func (m *importServiceMock) GetProgress(importID uuid.UUID) (progress.State, bool) {
	return m.progressFn(importID)
}

func importCfg() config.ImportConfig {
	return config.ImportConfig{MaxUploadSize: 1 << 20}
}

// multipartUpload builds a multipart request body with a file part and
// optional extra form fields.
func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write file part: %v", err)
	}

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestImportHandler_SyncUpload(t *testing.T) {
	t.Parallel()

	importID := uuid.New()
	svc := &importServiceMock{
		runFn: func(_ context.Context, in importer.Input) (*importer.Summary, error) {
			if in.Filename != "authors.json" {
				t.Errorf("filename = %q, want authors.json", in.Filename)
			}
			if !bytes.Contains(in.Content, []byte("Mark Twain")) {
				t.Error("uploaded content not passed through")
			}
			return &importer.Summary{
				ImportID:   importID,
				Status:     domain.ImportCompleted,
				Total:      1,
				Successful: 1,
			}, nil
		},
	}
	h := NewImportHandler(svc, importCfg(), testLogger())

	body, contentType := multipartUpload(t, "authors.json", []byte(`[{"name":"Mark Twain"}]`), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp importer.Summary
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != domain.ImportCompleted {
		t.Errorf("status = %s, want completed", resp.Status)
	}
	if resp.Successful != 1 {
		t.Errorf("successful = %d, want 1", resp.Successful)
	}
}

func TestImportHandler_AsyncUploadReturns202(t *testing.T) {
	t.Parallel()

	importID := uuid.New()
	svc := &importServiceMock{
		startFn: func(_ importer.Input) uuid.UUID { return importID },
	}
	h := NewImportHandler(svc, importCfg(), testLogger())

	body, contentType := multipartUpload(t, "bundle.zip", []byte("PK\x03\x04fake"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import?async=true", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var resp importStartedResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ImportID != importID.String() {
		t.Errorf("import_id = %q, want %q", resp.ImportID, importID)
	}
	if resp.Status != "pending" {
		t.Errorf("status = %q, want pending", resp.Status)
	}
}

func TestImportHandler_OptionsAndEntityHintForwarded(t *testing.T) {
	t.Parallel()

	svc := &importServiceMock{
		runFn: func(_ context.Context, in importer.Input) (*importer.Summary, error) {
			if in.Entity != domain.DataTypeAuthors {
				t.Errorf("entity hint = %s, want authors", in.Entity)
			}
			cc := in.Options.Conflict[domain.DataTypeAuthors]
			if cc.Mode != domain.ConflictUpsert {
				t.Errorf("conflict mode = %s, want upsert", cc.Mode)
			}
			if !in.Options.DryRun {
				t.Error("expected dry_run=true")
			}
			return &importer.Summary{Status: domain.ImportCompleted}, nil
		},
	}
	h := NewImportHandler(svc, importCfg(), testLogger())

	opts := `{"conflict":{"authors":{"mode":"upsert","update_strategy":"overwrite"}},"dry_run":true}`
	body, contentType := multipartUpload(t, "data.json", []byte(`[]`), map[string]string{
		"options": opts,
		"entity":  "authors",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
}

func TestImportHandler_MissingFilePart(t *testing.T) {
	t.Parallel()

	h := NewImportHandler(&importServiceMock{}, importCfg(), testLogger())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("entity", "authors") //nolint:errcheck
	mw.Close()                         //nolint:errcheck

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestImportHandler_InvalidOptionsJSON(t *testing.T) {
	t.Parallel()

	h := NewImportHandler(&importServiceMock{}, importCfg(), testLogger())

	body, contentType := multipartUpload(t, "data.json", []byte(`[]`), map[string]string{
		"options": `{not json`,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestImportHandler_UnknownEntityHint(t *testing.T) {
	t.Parallel()

	h := NewImportHandler(&importServiceMock{}, importCfg(), testLogger())

	body, contentType := multipartUpload(t, "data.json", []byte(`[]`), map[string]string{
		"entity": "wizards",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestImportHandler_Progress(t *testing.T) {
	t.Parallel()

	importID := uuid.New()
	svc := &importServiceMock{
		progressFn: func(id uuid.UUID) (progress.State, bool) {
			if id != importID {
				t.Errorf("import id = %s, want %s", id, importID)
			}
			return progress.State{
				ImportID:  importID.String(),
				Status:    domain.ImportProcessing,
				Total:     100,
				Processed: 40,
			}, true
		},
	}
	h := NewImportHandler(svc, importCfg(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/import/"+importID.String()+"/progress", nil)
	req.SetPathValue("id", importID.String())
	rec := httptest.NewRecorder()

	h.Progress(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var state progress.State
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if state.Processed != 40 {
		t.Errorf("processed = %d, want 40", state.Processed)
	}
}

func TestImportHandler_ProgressNotFound(t *testing.T) {
	t.Parallel()

	svc := &importServiceMock{
		progressFn: func(_ uuid.UUID) (progress.State, bool) {
			return progress.State{}, false
		},
	}
	h := NewImportHandler(svc, importCfg(), testLogger())

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/api/import/"+id+"/progress", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()

	h.Progress(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
