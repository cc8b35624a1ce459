package protocol

import (
	"strings"

	"github.com/danmuck/jsontp/internal/protocol/status"
)

// Validate checks the request rules applied before dispatch.
func (r *Request) Validate() error {
	if r == nil {
		return invalid("request", "request is empty")
	}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"jsontp", r.Version},
		{"type", r.Type},
		{"method", string(r.Method)},
		{"resource", r.Resource},
	} {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name, "field %s is empty", f.name)
		}
	}
	if !r.Method.Valid() {
		return invalid("method", "method %q is not allowed", r.Method)
	}
	if r.Type != TypeRequest {
		return invalid("type", "type %q is not allowed", r.Type)
	}
	return validateEncoding(r.Body.Encoding)
}

// Validate checks the rules applied to a handler response before it is
// converted for the wire.
func (r Response) Validate() error {
	if r.Body.Content == "" {
		return invalid("content", "body content is empty")
	}
	if !status.InRange(r.Status) {
		return invalid("status", "status code %d is not in the range %d-%d", r.Status, status.MinCode, status.MaxCode)
	}
	for _, key := range []string{bodyKeyContent, bodyKeyEncoding} {
		if _, ok := r.Body.Extra[key]; ok {
			return invalid("extra", "body extra must not contain reserved key %q", key)
		}
	}
	return validateEncoding(r.Body.Encoding)
}

// Validate checks a decoded wire response on the client side.
func (w WireResponse) Validate() error {
	if strings.TrimSpace(w.Version) == "" {
		return invalid("jsontp", "field jsontp is empty")
	}
	if w.Type != TypeResponse {
		return invalid("type", "type %q is not allowed", w.Type)
	}
	if !status.InRange(w.Status.Code) {
		return invalid("status", "status code %d is not in the range %d-%d", w.Status.Code, status.MinCode, status.MaxCode)
	}
	return nil
}

func validateEncoding(enc Encoding) error {
	if enc == "" {
		return invalid("encoding", "field encoding is empty")
	}
	if !enc.Valid() {
		return invalid("encoding", "encoding %q is not allowed", enc)
	}
	return nil
}
