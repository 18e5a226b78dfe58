// Package server wires configuration, storage, services and the HTTP API
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lifememo/navi/internal/cryptox"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/blobstore"
	"github.com/lifememo/navi/internal/server/config"
	"github.com/lifememo/navi/internal/server/document"
	"github.com/lifememo/navi/internal/server/httpapi"
	"github.com/lifememo/navi/internal/server/polish"
	"github.com/lifememo/navi/internal/server/repositories/repomanager"
	"github.com/lifememo/navi/internal/server/services"
)

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := newBlobStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	polisher := newPolisher(ctx, c, logger)

	cipher := cryptox.NewCipher(c.EncryptionKey, cryptox.WithStrictTokens(c.StrictCiphertext))
	if err := cipher.Validate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAccountService(db, rm, store, c, logger.With("service", "accounts"))
	is := services.NewInterviewService(db, rm, cipher, polisher, logger.With("service", "interviews"))
	ts := services.NewTimelineService(db, rm, cipher, logger.With("service", "timelines"))
	ps := services.NewPhotoService(db, rm, store, cipher, c.MaxUploadBytes, logger.With("service", "photos"))
	renderer := document.NewRenderer(c.FontPath, store, logger.With("module", "document"))
	ds := services.NewDocumentService(as, is, ts, ps, renderer, logger.With("service", "documents"))

	opts := httpapi.Options{
		JWTSecret:      []byte(c.SecretKey),
		AdminKey:       c.AdminKey,
		AllowedOrigins: c.AllowedOrigins,
		MaxUploadBytes: c.MaxUploadBytes,
	}
	if c.StorageBackend == config.StorageLocal {
		opts.UploadDir, opts.UploadPrefix = c.UploadDir, c.PublicUploadPrefix
	}
	handler := httpapi.NewRouter(httpapi.Services{
		Accounts:   as,
		Interviews: is,
		Timelines:  ts,
		Photos:     ps,
		Documents:  ds,
	}, logger, opts)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: httpapi.NewServer(c.HTTPAddr, handler, logger, c.ShutdownTimeout),
	}, nil
}

// newBlobStore returns the photo store selected by the storage backend
// setting.
func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.StorageBackend {
	case config.StorageS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			AccessKey:     c.S3RootUser,
			SecretKey:     c.S3RootPassword,
			Bucket:        c.S3Bucket,
			Region:        c.S3Region,
			Endpoint:      c.S3BaseEndpoint,
			PublicBaseURL: c.S3PublicBaseURL,
		})
	case config.StorageLocal, "":
		return blobstore.NewLocalStore(c.UploadDir, c.PublicUploadPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// newPolisher falls back to polish.Disabled when no API key is configured
// or the client cannot be created, so the rest of the API still serves.
func newPolisher(ctx context.Context, c *config.Config, logger logging.Logger) polish.Polisher {
	if c.GeminiAPIKey == "" {
		logger.Warn(ctx, "AI polish disabled: no API key configured")
		return polish.Disabled{}
	}
	p, err := polish.NewGeminiPolisher(ctx, c.GeminiAPIKey, c.GeminiModel)
	if err != nil {
		logger.Error(ctx, "AI polish disabled", "error", err)
		return polish.Disabled{}
	}
	return p
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
	return runErr
}
