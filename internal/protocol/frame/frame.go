package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// PrefixLen is the width of the big-endian payload length prefix.
const PrefixLen = 4

var (
	// ErrFrame is the root of every framing failure. All of them are fatal to
	// the connection that produced them.
	ErrFrame = errors.New("frame: invalid frame")

	ErrConnectionClosed = errors.New("frame: connection closed")
	ErrFrameTooLarge    = fmt.Errorf("%w: payload too large", ErrFrame)
	ErrTruncated        = fmt.Errorf("%w: truncated data", ErrFrame)
	ErrEmptyPayload     = fmt.Errorf("%w: empty payload", ErrFrame)
)

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: 8 * 1024 * 1024,
	}
}

// WithDefaults fills zero-valued limits.
func (l Limits) WithDefaults() Limits {
	if l.MaxPayloadBytes == 0 {
		l.MaxPayloadBytes = DefaultLimits().MaxPayloadBytes
	}
	return l
}

// Read reads one length-prefixed payload from r.
//
// A stream that ends before the first prefix byte yields ErrConnectionClosed.
// A stream that ends anywhere later yields ErrTruncated. A prefix above the
// limit yields ErrFrameTooLarge before the payload buffer is allocated.
func Read(r io.Reader, limits Limits) ([]byte, error) {
	limits = limits.WithDefaults()

	var prefix [PrefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, ErrConnectionClosed
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, fmt.Errorf("%w: prefix", ErrTruncated)
		}
		return nil, err
	}

	n := binary.BigEndian.Uint32(prefix[:])
	if n == 0 {
		return nil, ErrEmptyPayload
	}
	if n > limits.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: declared=%d max=%d", ErrFrameTooLarge, n, limits.MaxPayloadBytes)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: payload", ErrTruncated)
		}
		return nil, err
	}
	return payload, nil
}

// Write writes payload to w behind its length prefix as one logical write,
// retrying short writes until every byte is flushed.
func Write(w io.Writer, payload []byte, limits Limits) error {
	limits = limits.WithDefaults()
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	if uint64(len(payload)) > uint64(limits.MaxPayloadBytes) {
		return fmt.Errorf("%w: size=%d max=%d", ErrFrameTooLarge, len(payload), limits.MaxPayloadBytes)
	}

	buf := make([]byte, PrefixLen+len(payload))
	binary.BigEndian.PutUint32(buf[:PrefixLen], uint32(len(payload)))
	copy(buf[PrefixLen:], payload)
	return writeFull(w, buf)
}

func writeFull(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		buf = buf[n:]
	}
	return nil
}

// IsBoundaryClose reports whether err is a clean end of stream between frames.
func IsBoundaryClose(err error) bool {
	return errors.Is(err, ErrConnectionClosed)
}
