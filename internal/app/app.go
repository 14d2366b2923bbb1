package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/author"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/backupfile"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/exportlog"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/importlog"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/quote"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/reference"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/relation"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/tag"
	"github.com/quotehub/quotehub-backend/internal/adapter/postgres/user"
	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/objectstore"
	"github.com/quotehub/quotehub-backend/internal/progress"
	"github.com/quotehub/quotehub-backend/internal/service/backup"
	"github.com/quotehub/quotehub-backend/internal/service/export"
	"github.com/quotehub/quotehub-backend/internal/service/importer"
	"github.com/quotehub/quotehub-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects
// to the database, wires repositories and services, and serves HTTP
// until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	store, err := objectstore.NewFSStore(cfg.Backup.Dir)
	if err != nil {
		return fmt.Errorf("init backup store: %w", err)
	}

	exportRepos, importRepos, err := buildRepos(pool)
	if err != nil {
		return fmt.Errorf("init repositories: %w", err)
	}

	backupSvc := backup.NewService(logger, backupfile.New(pool), store, cfg.Backup)
	exportSvc := export.NewService(logger, exportRepos, exportlog.New(pool), backupSvc, cfg.Export)
	importSvc := importer.NewService(
		logger,
		importRepos,
		postgres.NewTxManager(pool),
		progress.NewTracker(),
		importlog.New(pool),
		backupSvc,
		cfg.Import,
	)

	router := rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler(pool, BuildVersion()),
		Export: rest.NewExportHandler(exportSvc, cfg.Export, logger),
		Import: rest.NewImportHandler(importSvc, cfg.Import, logger),
		Backup: rest.NewBackupHandler(backupSvc, logger),
	}, cfg.CORS, logger)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// buildRepos constructs one repository per entity type. Core entities
// get dedicated repos with filter support; relation and activity tables
// share the generic relation repo.
func buildRepos(pool *pgxpool.Pool) (map[domain.DataType]export.EntityRepo, map[domain.DataType]importer.EntityRepo, error) {
	exportRepos := make(map[domain.DataType]export.EntityRepo, len(domain.EntityOrder))
	importRepos := make(map[domain.DataType]importer.EntityRepo, len(domain.EntityOrder))

	authorRepo, err := author.New(pool)
	if err != nil {
		return nil, nil, err
	}
	referenceRepo, err := reference.New(pool)
	if err != nil {
		return nil, nil, err
	}
	tagRepo, err := tag.New(pool)
	if err != nil {
		return nil, nil, err
	}
	userRepo, err := user.New(pool)
	if err != nil {
		return nil, nil, err
	}
	quoteRepo, err := quote.New(pool)
	if err != nil {
		return nil, nil, err
	}

	exportRepos[domain.DataTypeAuthors] = authorRepo
	exportRepos[domain.DataTypeReferences] = referenceRepo
	exportRepos[domain.DataTypeTags] = tagRepo
	exportRepos[domain.DataTypeUsers] = userRepo
	exportRepos[domain.DataTypeQuotes] = quoteRepo

	importRepos[domain.DataTypeAuthors] = authorRepo
	importRepos[domain.DataTypeReferences] = referenceRepo
	importRepos[domain.DataTypeTags] = tagRepo
	importRepos[domain.DataTypeUsers] = userRepo
	importRepos[domain.DataTypeQuotes] = quoteRepo

	for _, dt := range domain.EntityOrder {
		if domain.CoreEntities[dt] {
			continue
		}
		repo, err := relation.New(pool, dt)
		if err != nil {
			return nil, nil, err
		}
		exportRepos[dt] = repo
		importRepos[dt] = repo
	}

	return exportRepos, importRepos, nil
}
