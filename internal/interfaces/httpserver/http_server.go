package httpserver

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	sitedocs "github.com/maisonbelle/salon-site/docs/swagger"
	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/handlers"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	v1 "github.com/maisonbelle/salon-site/internal/interfaces/httpserver/routes/v1"
	"github.com/maisonbelle/salon-site/pkg/observability"
	obsmiddleware "github.com/maisonbelle/salon-site/pkg/observability/middleware"
)

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Options carries the collaborators the server needs beyond handlers.
type Options struct {
	AdminAuth gin.HandlerFunc
	Throttle  gin.HandlerFunc
	Checks    map[string]ReadinessCheck
	// MediaRoot serves local-storage uploads under /media when set.
	MediaRoot string
	// Static is the SPA build served for unknown GET paths.
	Static    fs.FS
	Telemetry *observability.Provider
}

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New constructs the HTTP server with default middleware and routes.
func New(cfg *config.Config, log zerolog.Logger, provider *handlers.Provider, opts Options) *HttpServer {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	sitedocs.SwaggerInfo.BasePath = "/"

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middlewares.RequestID(),
		middlewares.CORSMiddleware(cfg.CORSOrigins),
	)
	if opts.Telemetry != nil && cfg.EnableTracing {
		engine.Use(obsmiddleware.Gin(opts.Telemetry.Tracer, opts.Telemetry.Meter, cfg.ServiceName))
	}
	engine.Use(
		middlewares.LoggingMiddleware(log),
		middlewares.MetricsMiddleware(),
	)

	if opts.AdminAuth == nil {
		opts.AdminAuth = func(c *gin.Context) { c.Next() }
	}
	if opts.Throttle == nil {
		opts.Throttle = func(c *gin.Context) { c.Next() }
	}

	registerCoreRoutes(engine, cfg, opts)
	v1.NewRoutes(provider, opts.AdminAuth, opts.Throttle).Register(engine.Group("/"))
	registerStatic(engine, opts.Static)

	return &HttpServer{
		cfg:    cfg,
		engine: engine,
		log:    log,
	}
}

// Handler exposes the engine for tests.
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP listener and handles graceful shutdown via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("site HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, opts Options) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": cfg.ServiceName, "status": "healthy"})
	})
	engine.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(opts.Checks))
		for name, check := range opts.Checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				checks[name] = err.Error()
				continue
			}
			checks[name] = "ok"
		}
		state := "ready"
		if status != http.StatusOK {
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if opts.MediaRoot != "" {
		engine.Static("/media", opts.MediaRoot)
	}
}

// registerStatic serves the SPA: real files by path, index.html for client
// routes. API prefixes keep their JSON 404.
func registerStatic(engine *gin.Engine, static fs.FS) {
	engine.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if static == nil || c.Request.Method != http.MethodGet || isAPIPath(p) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		name := strings.TrimPrefix(path.Clean(p), "/")
		if name != "" {
			if info, err := fs.Stat(static, name); err == nil && !info.IsDir() {
				c.FileFromFS(name, http.FS(static))
				return
			}
		}

		index, err := fs.ReadFile(static, "index.html")
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
}

func isAPIPath(p string) bool {
	for _, prefix := range []string{"/v1/", "/media/", "/swagger/"} {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
