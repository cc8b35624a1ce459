package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danmuck/jsontp/internal/protocol/status"
)

const (
	Version      = "1.0-rc1"
	TypeRequest  = "request"
	TypeResponse = "response"

	HeaderAcceptLanguage = "accept-language"
	HeaderDate           = "date"
	HeaderLanguage       = "language"
)

type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

type Encoding string

const (
	EncodingIdentity Encoding = "identity"
	EncodingGzip     Encoding = "gzip"
	EncodingDeflate  Encoding = "deflate"
	EncodingBrotli   Encoding = "br"
)

func (e Encoding) Valid() bool {
	switch e {
	case EncodingIdentity, EncodingGzip, EncodingDeflate, EncodingBrotli:
		return true
	}
	return false
}

const (
	bodyKeyContent  = "content"
	bodyKeyEncoding = "encoding"
)

// Body is the payload shared by requests and responses. Extra holds
// application fields flattened next to content and encoding on the wire.
type Body struct {
	Content  string
	Encoding Encoding
	Extra    map[string]any
}

// NewBody returns an identity-encoded body.
func NewBody(content string) Body {
	return Body{Content: content, Encoding: EncodingIdentity}
}

func (b Body) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Extra)+2)
	for k, v := range b.Extra {
		if k == bodyKeyContent || k == bodyKeyEncoding {
			return nil, fmt.Errorf("%w: %q", ErrReservedBodyKey, k)
		}
		out[k] = v
	}
	out[bodyKeyContent] = b.Content
	out[bodyKeyEncoding] = string(b.Encoding)
	return json.Marshal(out)
}

func (b *Body) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Body{}
	for k, v := range raw {
		switch k {
		case bodyKeyContent:
			if err := json.Unmarshal(v, &b.Content); err != nil {
				return fmt.Errorf("body content: %w", err)
			}
		case bodyKeyEncoding:
			var enc string
			if err := json.Unmarshal(v, &enc); err != nil {
				return fmt.Errorf("body encoding: %w", err)
			}
			b.Encoding = Encoding(enc)
		default:
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return fmt.Errorf("body %s: %w", k, err)
			}
			if b.Extra == nil {
				b.Extra = make(map[string]any)
			}
			b.Extra[k] = val
		}
	}
	return nil
}

// Request is one decoded jsontp request document.
type Request struct {
	Version  string         `json:"jsontp"`
	Type     string         `json:"type"`
	Method   Method         `json:"method"`
	Resource string         `json:"resource"`
	Headers  map[string]any `json:"headers"`
	Body     Body           `json:"body"`
}

// NewRequest returns a GET request for resource with an empty identity body.
func NewRequest(method Method, resource string) *Request {
	return &Request{
		Version:  Version,
		Type:     TypeRequest,
		Method:   method,
		Resource: resource,
		Headers:  map[string]any{},
		Body:     NewBody(""),
	}
}

// Header returns the header value for key. Exact keys win over
// case-insensitive matches.
func (r *Request) Header(key string) (any, bool) {
	if v, ok := r.Headers[key]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// Respond builds a handler Response echoing the request's resource.
func (r *Request) Respond(code int, body Body) Response {
	return Response{
		Body:     body,
		Status:   code,
		Resource: r.Resource,
	}
}

// Response is what a handler returns. It is converted once into a
// WireResponse before transmission.
type Response struct {
	Body     Body
	Status   int
	Cookies  map[string]string
	Resource string
	Language Language
	Headers  map[string]any
}

// WireResponse is the only response shape serialized onto the wire.
type WireResponse struct {
	Version  string         `json:"jsontp"`
	Type     string         `json:"type"`
	Status   status.Status  `json:"status"`
	Resource string         `json:"resource"`
	Headers  map[string]any `json:"headers"`
	Body     Body           `json:"body"`
}

// NewWireResponse stamps the protocol version and response marker.
func NewWireResponse(st status.Status, resource string, headers map[string]any, body Body) WireResponse {
	if headers == nil {
		headers = map[string]any{}
	}
	return WireResponse{
		Version:  Version,
		Type:     TypeResponse,
		Status:   st,
		Resource: resource,
		Headers:  headers,
		Body:     body,
	}
}

// Language is the response language. The zero value renders as en-US.
type Language struct {
	Lang   string
	Locale string
}

func (l Language) String() string {
	lang := strings.TrimSpace(l.Lang)
	if lang == "" {
		return "en-US"
	}
	locale := strings.TrimSpace(l.Locale)
	if locale == "" {
		locale = lang
	}
	return lang + "-" + strings.ToUpper(locale)
}

// ParseLanguage splits a tag such as "fr-CA" or "de".
func ParseLanguage(tag string) Language {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Language{}
	}
	lang, locale, _ := strings.Cut(tag, "-")
	return Language{Lang: strings.ToLower(lang), Locale: strings.ToUpper(locale)}
}
