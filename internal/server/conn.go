package server

import (
	"bufio"
	"errors"
	"net"
	"time"

	"github.com/danmuck/jsontp/internal/observability"
	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/protocol/frame"
	"github.com/danmuck/jsontp/internal/router"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// State is the position of one connection in its message cycle.
type State int

const (
	StateAwaitingMessage State = iota
	StateValidating
	StateDispatching
	StateNegotiating
	StateResponding
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingMessage:
		return "awaiting_message"
	case StateValidating:
		return "validating"
	case StateDispatching:
		return "dispatching"
	case StateNegotiating:
		return "negotiating"
	case StateResponding:
		return "responding"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// conn owns one stream and processes its messages strictly in order.
type conn struct {
	svc     *Service
	nc      net.Conn
	id      string
	reader  *bufio.Reader
	limiter *rate.Limiter
	state   State
	logger  zerolog.Logger
}

func newConn(svc *Service, nc net.Conn, id string, logger zerolog.Logger) *conn {
	c := &conn{
		svc:    svc,
		nc:     nc,
		id:     id,
		reader: bufio.NewReader(nc),
		logger: logger,
	}
	if svc.cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(svc.cfg.RateLimit), svc.cfg.RateBurst)
	}
	return c
}

func (c *conn) setState(s State) {
	c.state = s
	c.logger.Debug().Str("state", s.String()).Msg("server.conn state")
}

// serve runs the message loop until the peer closes at a frame boundary
// (nil) or a fatal frame, parse, or I/O error occurs.
func (c *conn) serve() error {
	defer c.setState(StateClosed)
	limits := c.svc.cfg.Limits
	for {
		c.setState(StateAwaitingMessage)
		if c.svc.cfg.ReadTimeout > 0 {
			_ = c.nc.SetReadDeadline(time.Now().Add(c.svc.cfg.ReadTimeout))
		}
		payload, err := frame.Read(c.reader, limits)
		if err != nil {
			if frame.IsBoundaryClose(err) {
				return nil
			}
			return err
		}

		start := time.Now()
		req, err := protocol.DecodeRequest(payload)
		if err != nil {
			return err
		}
		wire := c.respond(req)
		if err := c.write(wire); err != nil {
			return err
		}
		observability.RecordRequest(c.svc.cfg.Name, string(req.Method), wire.Status.Code, time.Since(start))
		c.logger.Debug().
			Str("method", string(req.Method)).
			Str("resource", req.Resource).
			Int("status", wire.Status.Code).
			Dur("duration", time.Since(start)).
			Msg("server.conn request")
	}
}

// respond runs validation, dispatch, negotiation and status categorization
// for one decoded request. Every outcome is a sendable WireResponse.
func (c *conn) respond(req *protocol.Request) protocol.WireResponse {
	now := time.Now()

	if c.limiter != nil && !c.limiter.Allow() {
		return c.svc.withErrorHandler(req, tooManyRequests(req.Resource, now), c.logger)
	}

	c.setState(StateValidating)
	if err := req.Validate(); err != nil {
		c.logger.Debug().Err(err).Msg("server.conn request rejected")
		return c.svc.withErrorHandler(req, badRequest(req, err, now), c.logger)
	}

	c.setState(StateDispatching)
	resp, found, err := c.svc.router.Dispatch(req)
	if !found {
		return c.svc.withErrorHandler(req, notFound(req.Resource, now), c.logger)
	}
	if err != nil {
		c.logger.Error().Err(err).Str("resource", req.Resource).Msg("server.conn handler fault")
		return c.svc.withErrorHandler(req, internalError(req.Resource, now), c.logger)
	}
	if resp.Resource == "" {
		resp.Resource = req.Resource
	}

	c.setState(StateNegotiating)
	if rejected := protocol.Negotiate(req, resp.Language); rejected != nil {
		resp = *rejected
	}

	c.setState(StateResponding)
	return c.svc.withErrorHandler(req, toWire(resp, now), c.logger)
}

// write encodes and sends wire. A response that cannot be encoded or does
// not fit in one frame is replaced by a 500 so the peer always gets an answer.
func (c *conn) write(wire protocol.WireResponse) error {
	if c.svc.cfg.WriteTimeout > 0 {
		_ = c.nc.SetWriteDeadline(time.Now().Add(c.svc.cfg.WriteTimeout))
	}
	payload, err := protocol.EncodeWireResponse(wire)
	if err == nil {
		err = frame.Write(c.nc, payload, c.svc.cfg.Limits)
		if err == nil || !errors.Is(err, frame.ErrFrameTooLarge) {
			return err
		}
	}
	c.logger.Error().Err(err).Str("resource", wire.Resource).Msg("server.conn response unsendable")
	return protocol.WriteWireResponse(c.nc, internalError(wire.Resource, time.Now()), c.svc.cfg.Limits)
}

// faultKind labels a connection-fatal error for metrics and logs.
func faultKind(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, frame.ErrFrame):
		return "frame"
	case errors.Is(err, protocol.ErrMalformedPayload):
		return "parse"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	default:
		return "io"
	}
}

// withErrorHandler lets a registered error handler replace the body of an
// error response. The engine-chosen status is kept.
func (s *Service) withErrorHandler(req *protocol.Request, wire protocol.WireResponse, logger zerolog.Logger) protocol.WireResponse {
	if wire.Status.Code < 400 {
		return wire
	}
	h, ok := s.router.ErrorHandler(wire.Status.Code)
	if !ok {
		return wire
	}
	custom, err := router.Call(h, req)
	if err != nil {
		logger.Error().Err(err).Int("status", wire.Status.Code).Msg("server.conn error handler fault")
		return wire
	}
	custom.Status = wire.Status.Code
	if err := custom.Validate(); err != nil {
		logger.Warn().Err(err).Int("status", wire.Status.Code).Msg("server.conn error handler response invalid")
		return wire
	}
	wire.Body = custom.Body
	for k, v := range custom.Headers {
		if _, reserved := wire.Headers[k]; !reserved {
			wire.Headers[k] = v
		}
	}
	return wire
}
