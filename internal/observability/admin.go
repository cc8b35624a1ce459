package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/danmuck/jsontp/internal/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// RouteLister is the slice of the server the admin surface reads from.
type RouteLister interface {
	Routes() []string
}

// AdminConfig describes the admin HTTP surface.
type AdminConfig struct {
	Node        string
	CorsOrigins []string
	// Token, when set, is required as a bearer token on /routes and /metrics.
	Token string
	// ActiveConns reports the live connection count for /healthz.
	ActiveConns func() int64
}

// NewAdminRouter builds the gin engine serving /healthz, /routes and /metrics.
func NewAdminRouter(cfg AdminConfig, routes RouteLister) *gin.Engine {
	RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log.Logger))
	r.Use(RequestMetricsMiddleware(cfg.Node))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	started := time.Now()
	r.GET("/healthz", func(c *gin.Context) {
		body := gin.H{
			"status": "ok",
			"node":   cfg.Node,
			"uptime": time.Since(started).Round(time.Second).String(),
		}
		if cfg.ActiveConns != nil {
			body["active_connections"] = cfg.ActiveConns()
		}
		c.JSON(http.StatusOK, body)
	})

	private := r.Group("/")
	if cfg.Token != "" {
		private.Use(RequireToken(auth.StaticToken{Token: cfg.Token}))
	}
	private.GET("/routes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"routes": routes.Routes()})
	})
	private.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// ServeAdmin runs handler on ln until ctx is cancelled.
func ServeAdmin(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("admin.ServeAdmin listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"http://localhost", "http://127.0.0.1"}
	}
	return out
}
