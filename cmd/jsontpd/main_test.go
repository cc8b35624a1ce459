package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/jsontp/internal/config"
	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/router"
	"github.com/danmuck/jsontp/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestHelloRoute(t *testing.T) {
	resp := hello(protocol.NewRequest(protocol.MethodGet, "/"))
	if resp.Status != 200 || resp.Body.Content != helloContent {
		t.Fatalf("unexpected hello response: %+v", resp)
	}
	if err := resp.Validate(); err != nil {
		t.Fatalf("hello response invalid: %v", err)
	}
	if got := resp.Language.String(); got != "en-US" {
		t.Fatalf("language = %q", got)
	}
}

func TestEchoRoute(t *testing.T) {
	req := protocol.NewRequest(protocol.MethodPost, "/echo")
	req.Body = protocol.Body{Content: "ping", Encoding: protocol.EncodingIdentity, Extra: map[string]any{"n": 3.0}}
	req.Headers[protocol.HeaderAcceptLanguage] = []any{"*", "fr-CA"}

	resp := echo(req)
	if diff := cmp.Diff(req.Body, resp.Body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	if got := resp.Language.String(); got != "fr-CA" {
		t.Fatalf("language = %q", got)
	}
	if rejected := protocol.Negotiate(req, resp.Language); rejected != nil {
		t.Fatalf("echo language not accepted: %+v", rejected)
	}
}

func TestRequestLanguage(t *testing.T) {
	tests := []struct {
		name   string
		header any
		want   string
	}{
		{name: "absent", want: "en-US"},
		{name: "string", header: "de", want: "de-DE"},
		{name: "wildcard", header: "*", want: "en-US"},
		{name: "array", header: []any{"", "es-MX"}, want: "es-MX"},
		{name: "non string", header: 7.0, want: "en-US"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := protocol.NewRequest(protocol.MethodGet, "/echo")
			if tc.header != nil {
				req.Headers[protocol.HeaderAcceptLanguage] = tc.header
			}
			if got := requestLanguage(req).String(); got != tc.want {
				t.Fatalf("language = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewServiceMountsStatic(t *testing.T) {
	testlog.Start(t)

	path := filepath.Join(t.TempDir(), "static.toml")
	doc := `
[[resource]]
path = "/about"
content = "about jsontp"

[[resource]]
path = "/"
content = "static root"
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write static file: %v", err)
	}
	cfg := config.Default()
	cfg.StaticFile = path

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, err := newService(ctx, cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if diff := cmp.Diff([]string{"/", "/about", "/echo"}, svc.Routes()); diff != "" {
		t.Fatalf("routes mismatch (-want +got):\n%s", diff)
	}

	h, ok := svc.Router().Lookup("/")
	if !ok {
		t.Fatalf("root route missing")
	}
	resp, err := router.Call(h, protocol.NewRequest(protocol.MethodGet, "/"))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if resp.Body.Content != "static root" {
		t.Fatalf("static resource did not shadow builtin: %+v", resp)
	}
}

func TestNewServiceMissingStaticFile(t *testing.T) {
	cfg := config.Default()
	cfg.StaticFile = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := newService(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for missing static file")
	}
}

func TestStaticReloadRestoresBuiltin(t *testing.T) {
	testlog.Start(t)

	path := filepath.Join(t.TempDir(), "static.toml")
	shadow := "[[resource]]\npath = \"/\"\ncontent = \"static root\"\n"
	if err := os.WriteFile(path, []byte(shadow), 0o600); err != nil {
		t.Fatalf("write static file: %v", err)
	}
	cfg := config.Default()
	cfg.StaticFile = path
	cfg.WatchStatic = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, err := newService(ctx, cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	root := func() string {
		h, ok := svc.Router().Lookup("/")
		if !ok {
			return ""
		}
		resp, err := router.Call(h, protocol.NewRequest(protocol.MethodGet, "/"))
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		return resp.Body.Content
	}
	if got := root(); got != "static root" {
		t.Fatalf("static root not mounted: %q", got)
	}

	other := "[[resource]]\npath = \"/about\"\ncontent = \"about\"\n"
	if err := os.WriteFile(path, []byte(other), 0o600); err != nil {
		t.Fatalf("rewrite static file: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, about := svc.Router().Lookup("/about"); about && root() == helloContent {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("builtin / not restored after reload: %q routes=%v", root(), svc.Routes())
}
