package backup

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/objectstore"
)

// memRepo is an in-memory metadataRepo.
type memRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*domain.BackupFile
	nextID  int64
	failSet map[string]error // method name -> forced error
}

var _ metadataRepo = &memRepo{}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]*domain.BackupFile{}, failSet: map[string]error{}}
}

func (m *memRepo) Create(_ context.Context, b *domain.BackupFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failSet["Create"]; err != nil {
		return err
	}
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now().UTC()
	clone := *b
	m.rows[b.BackupID] = &clone
	return nil
}

func (m *memRepo) GetByBackupID(_ context.Context, id uuid.UUID) (*domain.BackupFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *memRepo) GetByExportLogID(_ context.Context, exportLogID int64) (*domain.BackupFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.ExportLogID != nil && *b.ExportLogID == exportLogID && b.Status == domain.BackupStored {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) ListExpired(_ context.Context, now time.Time, _ int) ([]*domain.BackupFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.BackupFile
	for _, b := range m.rows {
		if b.Status == domain.BackupStored && b.Expired(now) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memRepo) SetStatus(_ context.Context, id uuid.UUID, status domain.BackupStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memRepo) MarkStored(_ context.Context, id uuid.UUID, size int64, hash string, ct domain.CompressionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = domain.BackupStored
	b.CompressedSize = size
	b.ContentHash = hash
	b.CompressionType = ct
	return nil
}

func (m *memRepo) TouchAccess(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.AccessCount++
	now := time.Now().UTC()
	b.LastAccessAt = &now
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// failStore wraps a Store and forces errors per method.
type failStore struct {
	objectstore.Store
	putErr    error
	deleteErr error
}

func (f *failStore) Put(ctx context.Context, key string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.Store.Put(ctx, key, data)
}

func (f *failStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Store.Delete(ctx, key)
}

func newTestService(t *testing.T, repo metadataRepo, store objectStore) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewService(logger, repo, store, config.BackupConfig{DefaultRetentionDays: 30})
}

func fsStore(t *testing.T) *objectstore.FSStore {
	t.Helper()
	store, err := objectstore.NewFSStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCreate_SmallContentStaysUncompressed(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := newTestService(t, repo, fsStore(t))

	res, err := svc.Create(context.Background(), CreateInput{
		Content:  []byte(`[{"name":"Mark Twain"}]`),
		Filename: "authors.json",
		DataType: domain.DataTypeAuthors,
		Format:   domain.FormatJSON,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CompressionNone, res.CompressionType)
	assert.Equal(t, res.OriginalSize, res.CompressedSize)
	assert.True(t, strings.HasPrefix(res.FileKey, "backups/"))
	assert.True(t, strings.HasSuffix(res.FileKey, "/authors.json"))

	meta, err := repo.GetByBackupID(context.Background(), res.BackupID)
	require.NoError(t, err)
	assert.Equal(t, domain.BackupStored, meta.Status)
	assert.Equal(t, 30, meta.RetentionDays)
	require.NotNil(t, meta.ExpiresAt)
}

func TestCreate_CompressibleContentGetsGzip(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := newTestService(t, repo, fsStore(t))

	// Highly repetitive, well over the floor.
	content := bytes.Repeat([]byte(`{"content":"To be or not to be"},`), 200)

	res, err := svc.Create(context.Background(), CreateInput{
		Content:  content,
		Filename: "quotes.json",
		DataType: domain.DataTypeQuotes,
		Format:   domain.FormatJSON,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CompressionGzip, res.CompressionType)
	assert.Less(t, res.CompressedSize, res.OriginalSize)
}

func TestCreate_RoundTripThroughGet(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := newTestService(t, repo, fsStore(t))

	content := bytes.Repeat([]byte("all the world's a stage "), 100)
	res, err := svc.Create(context.Background(), CreateInput{
		Content:  content,
		Filename: "quotes.json",
		DataType: domain.DataTypeQuotes,
		Format:   domain.FormatJSON,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), res.BackupID)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)

	meta, err := repo.GetByBackupID(context.Background(), res.BackupID)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.AccessCount)
	assert.NotNil(t, meta.LastAccessAt)
}

func TestCreate_StoreFailureMarksFailed(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	store := &failStore{Store: fsStore(t), putErr: assert.AnError}
	svc := newTestService(t, repo, store)

	_, err := svc.Create(context.Background(), CreateInput{
		Content:  []byte("payload"),
		Filename: "authors.json",
		DataType: domain.DataTypeAuthors,
		Format:   domain.FormatJSON,
	})
	require.Error(t, err)

	// The uploading row must be left in failed status, never stored.
	var statuses []domain.BackupStatus
	for _, b := range repo.rows {
		statuses = append(statuses, b.Status)
	}
	require.Len(t, statuses, 1)
	assert.Equal(t, domain.BackupFailed, statuses[0])
}

func TestCreate_EmptyContentRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemRepo(), fsStore(t))

	_, err := svc.Create(context.Background(), CreateInput{Filename: "x.json"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGet_CorruptedObjectDetected(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	store := fsStore(t)
	svc := newTestService(t, repo, store)

	res, err := svc.Create(context.Background(), CreateInput{
		Content:  []byte("short but precious payload"),
		Filename: "tags.json",
		DataType: domain.DataTypeTags,
		Format:   domain.FormatJSON,
	})
	require.NoError(t, err)

	// Mutate the stored bytes out-of-band.
	require.NoError(t, store.Put(context.Background(), res.FileKey, []byte("tampered")))

	_, err = svc.Get(context.Background(), res.BackupID)
	assert.ErrorIs(t, err, domain.ErrCorrupted)
}

func TestGet_UnknownBackup(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemRepo(), fsStore(t))

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_RemovesObjectAndMetadata(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	store := fsStore(t)
	svc := newTestService(t, repo, store)

	res, err := svc.Create(context.Background(), CreateInput{
		Content:  []byte("to be deleted"),
		Filename: "users.json",
		DataType: domain.DataTypeUsers,
		Format:   domain.FormatJSON,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), res.BackupID))

	_, err = repo.GetByBackupID(context.Background(), res.BackupID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(context.Background(), res.FileKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCleanupExpired(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	store := fsStore(t)
	svc := newTestService(t, repo, store)

	mk := func(name string) uuid.UUID {
		res, err := svc.Create(context.Background(), CreateInput{
			Content:  []byte("expired payload " + name),
			Filename: name,
			DataType: domain.DataTypeAuthors,
			Format:   domain.FormatJSON,
		})
		require.NoError(t, err)
		return res.BackupID
	}

	expiredA := mk("a.json")
	expiredB := mk("b.json")
	fresh := mk("fresh.json")

	past := time.Now().UTC().Add(-time.Hour)
	for _, id := range []uuid.UUID{expiredA, expiredB} {
		repo.mu.Lock()
		repo.rows[id].ExpiresAt = &past
		repo.mu.Unlock()
	}

	res, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 0, res.Failed)

	_, err = repo.GetByBackupID(context.Background(), fresh)
	assert.NoError(t, err)
}

func TestCleanupExpired_ObjectDeleteFailureStillRemovesMetadata(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	inner := fsStore(t)
	svc := newTestService(t, repo, inner)

	res, err := svc.Create(context.Background(), CreateInput{
		Content:  []byte("doomed"),
		Filename: "doomed.json",
		DataType: domain.DataTypeAuthors,
		Format:   domain.FormatJSON,
	})
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	repo.mu.Lock()
	repo.rows[res.BackupID].ExpiresAt = &past
	repo.mu.Unlock()

	failing := &failStore{Store: inner, deleteErr: assert.AnError}
	svcFailing := newTestService(t, repo, failing)

	out, err := svcFailing.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Deleted)
	assert.Equal(t, 1, out.Failed)

	_, err = repo.GetByBackupID(context.Background(), res.BackupID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
