package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/danmuck/jsontp/internal/client"
	"github.com/danmuck/jsontp/internal/logging"
	"github.com/danmuck/jsontp/internal/protocol"
)

type options struct {
	addr     string
	method   string
	resource string
	content  string
	encoding string
	langs    string
	timeout  time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", "127.0.0.1:8080", "server address")
	flag.StringVar(&opts.method, "method", "GET", "request method")
	flag.StringVar(&opts.resource, "resource", "/", "resource path")
	flag.StringVar(&opts.content, "body", "", "body content")
	flag.StringVar(&opts.encoding, "encoding", string(protocol.EncodingIdentity), "body encoding")
	flag.StringVar(&opts.langs, "lang", "", "comma separated accept-language tags")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Second, "request timeout")
	flag.Parse()

	logging.ConfigureRuntime()
	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "jsontp-ping: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, opts options) error {
	req := buildRequest(opts)
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	resp, err := client.Send(ctx, opts.addr, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func buildRequest(opts options) *protocol.Request {
	b := client.NewRequest().
		Method(protocol.Method(opts.method)).
		Resource(opts.resource).
		Body(opts.content, protocol.Encoding(opts.encoding))
	var tags []string
	for _, tag := range strings.Split(opts.langs, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return b.AcceptLanguage(tags...).Build()
}
