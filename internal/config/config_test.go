package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseOverlaysDefinedKeys(t *testing.T) {
	cfg, err := Parse(`
name = "edge"
listen_addr = "127.0.0.1:9100"
max_payload_bytes = 4096
max_conns = 16
read_timeout = "30s"
rate_limit = 5.0
rate_burst = 10
admin_addr = "127.0.0.1:9101"
admin_token = " tok "
cors_origins = [" http://a ", ""]
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	svc := cfg.Service
	if svc.Name != "edge" || svc.ListenAddr != "127.0.0.1:9100" {
		t.Fatalf("identity not applied: %+v", svc)
	}
	if svc.Limits.MaxPayloadBytes != 4096 || svc.MaxConns != 16 {
		t.Fatalf("limits not applied: %+v", svc)
	}
	if svc.ReadTimeout != 30*time.Second || svc.WriteTimeout != 15*time.Second {
		t.Fatalf("timeouts: read=%v write=%v", svc.ReadTimeout, svc.WriteTimeout)
	}
	if svc.RateLimit != 5 || svc.RateBurst != 10 || svc.AdminListenAddr != "127.0.0.1:9101" {
		t.Fatalf("rate/admin not applied: %+v", svc)
	}
	if svc.AdminToken != "tok" {
		t.Fatalf("admin token: %q", svc.AdminToken)
	}
	if len(svc.CorsOrigins) != 1 || svc.CorsOrigins[0] != "http://a" {
		t.Fatalf("cors origins: %v", svc.CorsOrigins)
	}
}

func TestParseTemplateIsValid(t *testing.T) {
	cfg, err := Parse(Template)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if cfg.Service.ListenAddr != ":8080" || cfg.Service.Limits.MaxPayloadBytes != 8388608 {
		t.Fatalf("unexpected template config: %+v", cfg.Service)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad duration":  `read_timeout = "soon"`,
		"zero payload":  `max_payload_bytes = 0`,
		"unknown key":   `listen = ":1"`,
		"watch no file": `watch_static = true`,
		"negative conn": `max_conns = -1`,
		"empty listen":  `listen_addr = " "`,
	}
	for name, doc := range cases {
		if _, err := Parse(doc); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadAndWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsontpd.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
