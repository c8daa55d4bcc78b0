// Package server wires the clipvault components together and runs them:
// metadata storage, artifact store, workspace janitor, event publisher and
// the HTTP API, with graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/logging"
	"github.com/dmitrijs2005/clipvault/internal/server/artifacts"
	"github.com/dmitrijs2005/clipvault/internal/server/config"
	"github.com/dmitrijs2005/clipvault/internal/server/events"
	"github.com/dmitrijs2005/clipvault/internal/server/ingest"
	"github.com/dmitrijs2005/clipvault/internal/server/janitor"
	"github.com/dmitrijs2005/clipvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clipvault/internal/server/rest"
	"github.com/dmitrijs2005/clipvault/internal/server/services"
	"github.com/dmitrijs2005/clipvault/internal/server/transcoder"
	"github.com/dmitrijs2005/clipvault/internal/server/workspace"
)

const closeTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *repomanager.Manager
	events  events.Publisher
	janitor *janitor.Janitor
	http    *rest.HTTPServer
}

// NewApp connects to every configured backend. A storage connection failure
// is returned to the caller, which should treat it as fatal.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	return newApp(ctx, cfg, logger)
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	storage, err := repomanager.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app := &App{config: cfg, logger: logger, storage: storage, events: events.Nop{}}
	if err := app.init(ctx); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	cfg := app.config

	var (
		store     artifacts.Store
		staticDir string
		prefix    string
	)
	switch cfg.ArtifactBackend {
	case config.ArtifactsFS:
		fsStore, err := artifacts.NewFSStore(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			return fmt.Errorf("artifact store init error: %w", err)
		}
		store, staticDir, prefix = fsStore, fsStore.Dir(), fsStore.Prefix()
	case config.ArtifactsS3:
		s3Store, err := artifacts.NewS3Store(ctx, artifacts.S3Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
			PublicURL:    cfg.S3PublicURL,
		})
		if err != nil {
			return fmt.Errorf("artifact store init error: %w", err)
		}
		store = s3Store
	default:
		return fmt.Errorf("unknown artifact backend %q", cfg.ArtifactBackend)
	}

	ws, err := workspace.NewManager(cfg.WorkspaceDir)
	if err != nil {
		return err
	}

	j, err := janitor.New(ws, cfg.JanitorSchedule, cfg.WorkspaceMaxAge, app.logger)
	if err != nil {
		return err
	}
	app.janitor = j

	if cfg.NatsURL != "" {
		pub, err := events.NewNatsPublisher(cfg.NatsURL)
		if err != nil {
			app.logger.Warn(ctx, "event publishing disabled", "url", cfg.NatsURL, "error", err)
		} else {
			app.events = pub
		}
	}

	tr := transcoder.NewFFmpeg(cfg.TranscoderPath, cfg.TranscodeTimeout, cfg.RescaleFilter, app.logger)
	pipeline := ingest.NewPipeline(ws, tr, store, app.storage.Videos(), app.events, app.logger)
	videoService := services.NewVideoService(app.storage.Videos(), store, app.events, app.logger)

	app.http = rest.NewHTTPServer(cfg.HTTPAddr, app.logger, pipeline, videoService, rest.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		StaticDir:      staticDir,
		StaticPrefix:   prefix,
	})
	return nil
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

// Run serves until ctx is cancelled or a signal arrives, then releases every
// backend connection.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	defer app.close()
	app.janitor.Start()
	defer func() {
		<-app.janitor.Stop().Done()
	}()

	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := app.events.Close(); err != nil {
		app.logger.Warn(ctx, "event publisher close", "error", err)
	}
	if err := app.storage.Close(ctx); err != nil {
		app.logger.Warn(ctx, "storage close", "error", err)
	}
}
