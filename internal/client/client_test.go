package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/protocol/frame"
	"github.com/danmuck/jsontp/internal/server"
	"github.com/danmuck/jsontp/internal/testutil/testlog"
	"github.com/fortytw2/leaktest"
	"github.com/google/go-cmp/cmp"
)

func startServer(t *testing.T) (string, func()) {
	t.Helper()
	cfg := server.DefaultServiceConfig()
	cfg.Name = "client-test"
	svc := server.NewServiceWithConfig(cfg)
	err := svc.RegisterFunc("/echo", func(req *protocol.Request) protocol.Response {
		return req.Respond(200, req.Body)
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
	go func() {
		done <- svc.Serve(ctx, ln)
	}()
	return ln.Addr().String(), func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("serve: %v", err)
		}
	}
}

func TestBuilderDefaults(t *testing.T) {
	req := NewRequest().Build()
	if req.Method != protocol.MethodGet || req.Resource != "/" {
		t.Fatalf("unexpected defaults: %+v", req)
	}
	if req.Version != protocol.Version || req.Type != protocol.TypeRequest {
		t.Fatalf("unexpected envelope: %+v", req)
	}
	if req.Body.Encoding != protocol.EncodingIdentity {
		t.Fatalf("encoding = %q", req.Body.Encoding)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("default request invalid: %v", err)
	}
}

func TestBuilderChain(t *testing.T) {
	b := NewRequest().
		Method("post").
		Resource("/echo").
		Header("x-trace", "abc").
		AcceptLanguage("fr-CA", "en").
		Body("hi", protocol.EncodingGzip).
		BodyKey("n", 1)
	req := b.Build()

	if req.Method != protocol.MethodPost {
		t.Fatalf("method = %q", req.Method)
	}
	want := map[string]any{
		"x-trace":                     "abc",
		protocol.HeaderAcceptLanguage: []any{"fr-CA", "en"},
	}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	wantBody := protocol.Body{Content: "hi", Encoding: protocol.EncodingGzip, Extra: map[string]any{"n": 1}}
	if diff := cmp.Diff(wantBody, req.Body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	b.Header("x-trace", "changed").BodyKey("n", 2)
	if req.Headers["x-trace"] != "abc" || req.Body.Extra["n"] != 1 {
		t.Fatalf("built request shares state with builder: %+v", req)
	}
}

func TestBuilderSingleLanguage(t *testing.T) {
	req := NewRequest().AcceptLanguage("de").Build()
	if got := req.Headers[protocol.HeaderAcceptLanguage]; got != "de" {
		t.Fatalf("accept-language = %#v", got)
	}
	req = NewRequest().AcceptLanguage("de").AcceptLanguage().Build()
	if _, ok := req.Headers[protocol.HeaderAcceptLanguage]; ok {
		t.Fatalf("accept-language not cleared")
	}
}

func TestNewRequiresAddress(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func TestDoReusesConnection(t *testing.T) {
	defer leaktest.Check(t)()
	testlog.Start(t)

	addr, stop := startServer(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	for _, content := range []string{"one", "two", "three"} {
		resp, err := c.Do(ctx, NewRequest().Resource("/echo").Body(content, protocol.EncodingIdentity).Build())
		if err != nil {
			t.Fatalf("do %q: %v", content, err)
		}
		if resp.Status.Code != 200 || resp.Body.Content != content {
			t.Fatalf("unexpected response for %q: %+v", content, resp)
		}
	}

	resp, err := c.Do(ctx, NewRequest().Resource("/missing").Build())
	if err != nil {
		t.Fatalf("do missing: %v", err)
	}
	if resp.Status.Code != 404 {
		t.Fatalf("status = %d, want 404", resp.Status.Code)
	}
}

func TestSendOneShot(t *testing.T) {
	defer leaktest.Check(t)()
	testlog.Start(t)

	addr, stop := startServer(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := Send(ctx, addr, NewRequest().Resource("/echo").Body("once", protocol.EncodingIdentity).BodyKey("k", "v").Build())
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	want := protocol.Body{Content: "once", Encoding: protocol.EncodingIdentity, Extra: map[string]any{"k": "v"}}
	if diff := cmp.Diff(want, resp.Body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestDoAfterClose(t *testing.T) {
	c, err := New(Config{Address: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := c.Do(context.Background(), NewRequest().Build()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDoCancelled(t *testing.T) {
	defer leaktest.Check(t)()
	testlog.Start(t)

	// A peer that accepts and never answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	accepted := make(chan net.Conn, 1)
	go func() {
		nc, err := ln.Accept()
		if err == nil {
			accepted <- nc
		}
		close(accepted)
	}()
	defer func() {
		_ = ln.Close()
		for nc := range accepted {
			_ = nc.Close()
		}
	}()

	c, err := Dial(context.Background(), ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	_, err = c.Do(ctx, NewRequest().Build())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// hangUpServer reads one frame per connection, then closes it without
// answering.
func hangUpServer(t *testing.T) (string, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer nc.Close()
				_ = nc.SetDeadline(time.Now().Add(2 * time.Second))
				_, _ = frame.Read(nc, frame.DefaultLimits())
				time.Sleep(time.Millisecond)
			}()
		}
	}()
	return ln.Addr().String(), func() {
		_ = ln.Close()
		wg.Wait()
	}
}

func TestDoCancelRacesPeerClose(t *testing.T) {
	defer leaktest.Check(t)()
	testlog.Start(t)

	addr, stop := hangUpServer(t)
	defer stop()

	c, err := New(Config{Address: addr})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Close()

	for i := 0; i < 300; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		if _, err := c.Do(ctx, NewRequest().Build()); err == nil {
			cancel()
			t.Fatalf("call %d: expected an error from a peer that never answers", i)
		}
		cancel()
	}
}
