package client

import (
	"strings"

	"github.com/danmuck/jsontp/internal/protocol"
)

// RequestBuilder assembles a request. Each setter returns the builder so
// calls chain; Build returns an independent copy.
type RequestBuilder struct {
	req protocol.Request
}

// NewRequest starts a GET / request with an empty identity body.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{req: *protocol.NewRequest(protocol.MethodGet, "/")}
}

func (b *RequestBuilder) Method(m protocol.Method) *RequestBuilder {
	b.req.Method = protocol.Method(strings.ToUpper(string(m)))
	return b
}

func (b *RequestBuilder) Resource(path string) *RequestBuilder {
	b.req.Resource = path
	return b
}

func (b *RequestBuilder) Header(key string, value any) *RequestBuilder {
	b.req.Headers[key] = value
	return b
}

// AcceptLanguage sets accept-language to a single tag or a tag list.
func (b *RequestBuilder) AcceptLanguage(tags ...string) *RequestBuilder {
	switch len(tags) {
	case 0:
		delete(b.req.Headers, protocol.HeaderAcceptLanguage)
	case 1:
		b.req.Headers[protocol.HeaderAcceptLanguage] = tags[0]
	default:
		list := make([]any, len(tags))
		for i, t := range tags {
			list[i] = t
		}
		b.req.Headers[protocol.HeaderAcceptLanguage] = list
	}
	return b
}

func (b *RequestBuilder) Body(content string, enc protocol.Encoding) *RequestBuilder {
	b.req.Body.Content = content
	b.req.Body.Encoding = enc
	return b
}

// BodyKey adds an application field next to content and encoding.
func (b *RequestBuilder) BodyKey(key string, value any) *RequestBuilder {
	if b.req.Body.Extra == nil {
		b.req.Body.Extra = make(map[string]any)
	}
	b.req.Body.Extra[key] = value
	return b
}

func (b *RequestBuilder) Build() *protocol.Request {
	out := b.req
	out.Headers = make(map[string]any, len(b.req.Headers))
	for k, v := range b.req.Headers {
		out.Headers[k] = v
	}
	if b.req.Body.Extra != nil {
		out.Body.Extra = make(map[string]any, len(b.req.Body.Extra))
		for k, v := range b.req.Body.Extra {
			out.Body.Extra[k] = v
		}
	}
	return &out
}
