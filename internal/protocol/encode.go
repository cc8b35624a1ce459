package protocol

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danmuck/jsontp/internal/protocol/frame"
)

// EncodeRequest renders req as one JSON document.
func EncodeRequest(req *Request) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("protocol: nil request")
	}
	out := *req
	if out.Headers == nil {
		out.Headers = map[string]any{}
	}
	return json.Marshal(out)
}

// EncodeWireResponse renders resp as one JSON document.
func EncodeWireResponse(resp WireResponse) ([]byte, error) {
	if resp.Headers == nil {
		resp.Headers = map[string]any{}
	}
	return json.Marshal(resp)
}

// WriteRequest encodes req and writes it as one frame.
func WriteRequest(w io.Writer, req *Request, limits frame.Limits) error {
	payload, err := EncodeRequest(req)
	if err != nil {
		return err
	}
	return frame.Write(w, payload, limits)
}

// WriteWireResponse encodes resp and writes it as one frame.
func WriteWireResponse(w io.Writer, resp WireResponse, limits frame.Limits) error {
	payload, err := EncodeWireResponse(resp)
	if err != nil {
		return err
	}
	return frame.Write(w, payload, limits)
}
