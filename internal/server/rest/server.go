// Package rest exposes the ingest pipeline and video metadata over HTTP.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/logging"
	"github.com/dmitrijs2005/clipvault/internal/server/ingest"
	"github.com/dmitrijs2005/clipvault/internal/server/models"
	"github.com/dmitrijs2005/clipvault/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

type Ingester interface {
	Ingest(ctx context.Context, up ingest.Upload, params ingest.Params) (*models.Video, error)
}

type VideoService interface {
	ListVideos(ctx context.Context) ([]*models.Video, error)
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	DeleteVideo(ctx context.Context, id string) (*services.DeleteResult, error)
	InsertVideo(ctx context.Context, req services.InsertRequest) (*models.Video, error)
}

// Options tune the HTTP surface.
type Options struct {
	// MaxUploadBytes caps the POST /upload request body.
	MaxUploadBytes int64
	// StaticDir is served under StaticPrefix when set.
	StaticDir    string
	StaticPrefix string
}

type HTTPServer struct {
	address  string
	ingester Ingester
	videos   VideoService
	opts     Options
	logger   logging.Logger
	engine   *gin.Engine
}

func NewHTTPServer(address string, l logging.Logger, ing Ingester, vs VideoService, opts Options) *HTTPServer {
	s := &HTTPServer{
		address:  address,
		ingester: ing,
		videos:   vs,
		opts:     opts,
		logger:   l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the configured gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = 32 << 20

	r.POST("/upload", s.upload)
	r.GET("/request/videos", s.listVideos)
	r.GET("/request/single/video/:id", s.getVideo)
	r.DELETE("/request/video/:id", s.deleteVideo)
	r.POST("/insert/video", s.insertVideo)

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if s.opts.StaticDir != "" && s.opts.StaticPrefix != "" {
		uploads := r.Group(s.opts.StaticPrefix, cacheControl("public, max-age=86400"))
		uploads.StaticFS("/", gin.Dir(s.opts.StaticDir, false))
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
