// Package config loads jsontpd settings from TOML.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/jsontp/internal/server"
)

// Config is the resolved daemon configuration.
type Config struct {
	Service     server.ServiceConfig
	StaticFile  string
	WatchStatic bool
	LogFile     string
}

type fileConfig struct {
	Name            string   `toml:"name"`
	ListenAddr      string   `toml:"listen_addr"`
	MaxPayloadBytes int64    `toml:"max_payload_bytes"`
	MaxConns        int64    `toml:"max_conns"`
	ReadTimeout     string   `toml:"read_timeout"`
	WriteTimeout    string   `toml:"write_timeout"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
	AdminAddr       string   `toml:"admin_addr"`
	AdminToken      string   `toml:"admin_token"`
	CorsOrigins     []string `toml:"cors_origins"`
	StaticFile      string   `toml:"static_file"`
	WatchStatic     bool     `toml:"watch_static"`
	LogFile         string   `toml:"log_file"`
}

func Default() Config {
	return Config{Service: server.DefaultServiceConfig()}
}

// Load overlays the keys defined in the file at path onto Default.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load jsontpd config: %w", err)
	}
	return fromFile(raw, meta)
}

// Parse is Load over an in-memory document.
func Parse(doc string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(doc, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse jsontpd config: %w", err)
	}
	return fromFile(raw, meta)
}

func fromFile(raw fileConfig, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	cfg := Default()

	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			cfg.Service.Name = name
		}
	}
	if meta.IsDefined("listen_addr") {
		addr := strings.TrimSpace(raw.ListenAddr)
		if addr == "" {
			return Config{}, fmt.Errorf("jsontpd config listen_addr is empty")
		}
		cfg.Service.ListenAddr = addr
	}
	if meta.IsDefined("max_payload_bytes") {
		if raw.MaxPayloadBytes <= 0 || raw.MaxPayloadBytes > 1<<32-1 {
			return Config{}, fmt.Errorf("max_payload_bytes out of range: %d", raw.MaxPayloadBytes)
		}
		cfg.Service.Limits.MaxPayloadBytes = uint32(raw.MaxPayloadBytes)
	}
	if meta.IsDefined("max_conns") {
		cfg.Service.MaxConns = raw.MaxConns
	}
	if meta.IsDefined("read_timeout") {
		d, err := parseDuration("read_timeout", raw.ReadTimeout)
		if err != nil {
			return Config{}, err
		}
		cfg.Service.ReadTimeout = d
	}
	if meta.IsDefined("write_timeout") {
		d, err := parseDuration("write_timeout", raw.WriteTimeout)
		if err != nil {
			return Config{}, err
		}
		cfg.Service.WriteTimeout = d
	}
	if meta.IsDefined("rate_limit") {
		cfg.Service.RateLimit = raw.RateLimit
	}
	if meta.IsDefined("rate_burst") {
		cfg.Service.RateBurst = raw.RateBurst
	}
	if meta.IsDefined("admin_addr") {
		cfg.Service.AdminListenAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("admin_token") {
		cfg.Service.AdminToken = strings.TrimSpace(raw.AdminToken)
	}
	if meta.IsDefined("cors_origins") {
		cfg.Service.CorsOrigins = normalizeList(raw.CorsOrigins)
	}
	if meta.IsDefined("static_file") {
		cfg.StaticFile = strings.TrimSpace(raw.StaticFile)
	}
	if meta.IsDefined("watch_static") {
		cfg.WatchStatic = raw.WatchStatic
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}

	cfg.Service = cfg.Service.WithDefaults()
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Service.ListenAddr) == "" {
		return fmt.Errorf("jsontpd config missing listen_addr")
	}
	if cfg.WatchStatic && cfg.StaticFile == "" {
		return fmt.Errorf("jsontpd config watch_static requires static_file")
	}
	if cfg.Service.RateLimit > 0 && cfg.Service.RateBurst <= 0 {
		return fmt.Errorf("jsontpd config rate_burst must be positive when rate_limit is set")
	}
	return cfg.Service.Validate()
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
