package server

import (
	"time"

	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/protocol/status"
)

// DateLayout renders the date header, e.g. 2024-01-02T15:04:05Z+0000.
const DateLayout = "2006-01-02T15:04:05Z-0700"

const (
	internalErrorContent   = "Internal Server Error"
	tooManyRequestsContent = "Too many requests"
)

func engineHeaders(lang protocol.Language, now time.Time) map[string]any {
	return map[string]any{
		protocol.HeaderDate:     now.UTC().Format(DateLayout),
		protocol.HeaderLanguage: lang.String(),
	}
}

// toWire converts a handler Response into its wire form.
//
// An invalid Response becomes a 400 carrying the violation text. Handler
// headers come first, then cookies, then the engine's date and language.
func toWire(resp protocol.Response, now time.Time) protocol.WireResponse {
	if err := resp.Validate(); err != nil {
		return protocol.NewWireResponse(
			status.Describe(400, err.Error()),
			resp.Resource,
			engineHeaders(resp.Language, now),
			protocol.NewBody(err.Error()),
		)
	}

	headers := make(map[string]any, len(resp.Headers)+len(resp.Cookies)+2)
	for k, v := range resp.Headers {
		headers[k] = v
	}
	for k, v := range resp.Cookies {
		headers[k] = v
	}
	for k, v := range engineHeaders(resp.Language, now) {
		headers[k] = v
	}
	return protocol.NewWireResponse(status.Categorize(resp.Status), resp.Resource, headers, resp.Body)
}

// badRequest answers a request that failed validation.
func badRequest(req *protocol.Request, err error, now time.Time) protocol.WireResponse {
	return protocol.NewWireResponse(
		status.Describe(400, err.Error()),
		req.Resource,
		engineHeaders(protocol.Language{}, now),
		protocol.NewBody(err.Error()),
	)
}

// notFound is the fixed routing-miss response. It carries no content.
func notFound(resource string, now time.Time) protocol.WireResponse {
	return protocol.NewWireResponse(
		status.NotFound(),
		resource,
		engineHeaders(protocol.Language{}, now),
		protocol.NewBody(""),
	)
}

// internalError never carries fault details.
func internalError(resource string, now time.Time) protocol.WireResponse {
	return protocol.NewWireResponse(
		status.InternalError(),
		resource,
		engineHeaders(protocol.Language{}, now),
		protocol.NewBody(internalErrorContent),
	)
}

func tooManyRequests(resource string, now time.Time) protocol.WireResponse {
	return protocol.NewWireResponse(
		status.Categorize(429),
		resource,
		engineHeaders(protocol.Language{}, now),
		protocol.NewBody(tooManyRequestsContent),
	)
}
