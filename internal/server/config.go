package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/jsontp/internal/protocol/frame"
)

// ServiceConfig configures one jsontp listener.
type ServiceConfig struct {
	Name       string
	ListenAddr string
	Limits     frame.Limits
	// MaxConns caps concurrently served connections; 0 means unlimited.
	MaxConns int64
	// ReadTimeout bounds the idle wait for the next frame; 0 disables it.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RateLimit is the per-connection request rate in requests per second;
	// 0 disables limiting.
	RateLimit float64
	RateBurst int

	AdminListenAddr string
	// AdminToken guards the admin /routes and /metrics endpoints when set.
	AdminToken  string
	CorsOrigins []string
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:         "jsontpd",
		ListenAddr:   ":8080",
		Limits:       frame.DefaultLimits(),
		MaxConns:     0,
		ReadTimeout:  0,
		WriteTimeout: 15 * time.Second,
		RateLimit:    0,
		RateBurst:    1,
	}
}

// WithDefaults fills zero values that have no meaningful zero setting.
func (c ServiceConfig) WithDefaults() ServiceConfig {
	def := DefaultServiceConfig()
	if strings.TrimSpace(c.Name) == "" {
		c.Name = def.Name
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = def.ListenAddr
	}
	c.Limits = c.Limits.WithDefaults()
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = def.RateBurst
	}
	return c
}

func (c ServiceConfig) Validate() error {
	if c.MaxConns < 0 {
		return fmt.Errorf("server config max_conns must not be negative")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("server config timeouts must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("server config rate_limit must not be negative")
	}
	return nil
}
