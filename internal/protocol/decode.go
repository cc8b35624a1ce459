package protocol

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danmuck/jsontp/internal/protocol/frame"
)

// DecodeRequest parses one request document. It does not validate.
func DecodeRequest(payload []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &req, nil
}

// DecodeWireResponse parses one response document. It does not validate.
func DecodeWireResponse(payload []byte) (WireResponse, error) {
	var resp WireResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return WireResponse{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return resp, nil
}

// ReadRequest reads one frame from r and decodes it as a request.
func ReadRequest(r io.Reader, limits frame.Limits) (*Request, error) {
	payload, err := frame.Read(r, limits)
	if err != nil {
		return nil, err
	}
	return DecodeRequest(payload)
}

// ReadWireResponse reads one frame from r and decodes it as a response.
func ReadWireResponse(r io.Reader, limits frame.Limits) (WireResponse, error) {
	payload, err := frame.Read(r, limits)
	if err != nil {
		return WireResponse{}, err
	}
	return DecodeWireResponse(payload)
}
