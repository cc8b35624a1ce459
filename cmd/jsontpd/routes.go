package main

import (
	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/server"
)

const helloContent = "Hello, world!"

func registerBuiltins(svc *server.Service) error {
	if err := svc.RegisterFunc("/", hello); err != nil {
		return err
	}
	return svc.RegisterFunc("/echo", echo)
}

func hello(req *protocol.Request) protocol.Response {
	resp := req.Respond(200, protocol.NewBody(helloContent))
	resp.Language = protocol.Language{Lang: "en", Locale: "US"}
	return resp
}

// echo answers with the request body. The response language follows the
// first accept-language tag so negotiation always succeeds.
func echo(req *protocol.Request) protocol.Response {
	body := req.Body
	if body.Encoding == "" {
		body.Encoding = protocol.EncodingIdentity
	}
	resp := req.Respond(200, body)
	resp.Language = requestLanguage(req)
	return resp
}

func requestLanguage(req *protocol.Request) protocol.Language {
	v, ok := req.Header(protocol.HeaderAcceptLanguage)
	if !ok {
		return protocol.Language{}
	}
	switch tag := v.(type) {
	case string:
		if tag != "*" {
			return protocol.ParseLanguage(tag)
		}
	case []any:
		for _, item := range tag {
			if s, ok := item.(string); ok && s != "*" && s != "" {
				return protocol.ParseLanguage(s)
			}
		}
	}
	return protocol.Language{}
}
