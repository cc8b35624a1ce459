package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/server"
	"github.com/danmuck/jsontp/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestBuildRequest(t *testing.T) {
	req := buildRequest(options{
		method:   "post",
		resource: "/echo",
		content:  "hi",
		encoding: "identity",
		langs:    " fr-CA , en ,",
	})
	if req.Method != protocol.MethodPost || req.Resource != "/echo" {
		t.Fatalf("unexpected request line: %+v", req)
	}
	if diff := cmp.Diff([]any{"fr-CA", "en"}, req.Headers[protocol.HeaderAcceptLanguage]); diff != "" {
		t.Fatalf("accept-language mismatch (-want +got):\n%s", diff)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("request invalid: %v", err)
	}
}

func TestBuildRequestWithoutLanguages(t *testing.T) {
	req := buildRequest(options{method: "GET", resource: "/", encoding: "identity"})
	if _, ok := req.Headers[protocol.HeaderAcceptLanguage]; ok {
		t.Fatalf("unexpected accept-language header: %+v", req.Headers)
	}
}

func TestRunPrintsResponse(t *testing.T) {
	testlog.Start(t)

	svc := server.NewService()
	err := svc.RegisterFunc("/", func(req *protocol.Request) protocol.Response {
		return req.Respond(200, protocol.NewBody("pong"))
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	var out bytes.Buffer
	err = run(&out, options{
		addr:     ln.Addr().String(),
		method:   "GET",
		resource: "/",
		encoding: "identity",
		timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var resp protocol.WireResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if resp.Status.Code != 200 || resp.Body.Content != "pong" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
