// Package client speaks jsontp over a persistent framed connection.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

var (
	ErrAddressRequired = errors.New("client: address required")
	ErrClosed          = errors.New("client: closed")
)

type Config struct {
	Address     string
	DialTimeout time.Duration
	Limits      frame.Limits
}

func DefaultConfig() Config {
	return Config{
		DialTimeout: 5 * time.Second,
		Limits:      frame.DefaultLimits(),
	}
}

func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.DialTimeout <= 0 {
		c.DialTimeout = def.DialTimeout
	}
	c.Limits = c.Limits.WithDefaults()
	return c
}

// Client sends requests one at a time over a single connection. Do is safe
// for concurrent use; calls are serialized so responses pair with requests.
type Client struct {
	cfg Config

	mu     sync.Mutex
	nc     net.Conn
	reader *bufio.Reader
	closed bool
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, ErrAddressRequired
	}
	return &Client{cfg: cfg.WithDefaults()}, nil
}

// Dial returns a client already connected to addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Address = addr
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Send dials addr, performs one exchange, and closes the connection.
func Send(ctx context.Context, addr string, req *protocol.Request) (protocol.WireResponse, error) {
	c, err := Dial(ctx, addr)
	if err != nil {
		return protocol.WireResponse{}, err
	}
	defer c.Close()
	return c.Do(ctx, req)
}

// Do writes req and waits for its response. The connection is dropped
// after any transport or decode error and redialed on the next call.
func (c *Client) Do(ctx context.Context, req *protocol.Request) (protocol.WireResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return protocol.WireResponse{}, ErrClosed
	}
	if c.nc == nil {
		if err := c.connect(ctx); err != nil {
			return protocol.WireResponse{}, err
		}
	}

	// The cancel callback runs outside mu and must not see drop() reset c.nc.
	nc := c.nc
	deadline, _ := ctx.Deadline()
	_ = nc.SetDeadline(deadline)

	stop := context.AfterFunc(ctx, func() {
		_ = nc.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if err := protocol.WriteRequest(nc, req, c.cfg.Limits); err != nil {
		c.drop()
		return protocol.WireResponse{}, wrapErr(ctx, "write", err)
	}
	resp, err := protocol.ReadWireResponse(c.reader, c.cfg.Limits)
	if err != nil {
		c.drop()
		return protocol.WireResponse{}, wrapErr(ctx, "read", err)
	}
	if err := resp.Validate(); err != nil {
		c.drop()
		return protocol.WireResponse{}, fmt.Errorf("client response: %w", err)
	}
	log.Debug().
		Str("addr", c.cfg.Address).
		Str("method", string(req.Method)).
		Str("resource", req.Resource).
		Int("status", resp.Status.Code).
		Msg("client.Do")
	return resp, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.nc == nil {
		return nil
	}
	err := c.nc.Close()
	c.nc = nil
	c.reader = nil
	return err
}

func (c *Client) connect(ctx context.Context) error {
	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	nc, err := dialer.DialContext(ctx, "tcp", c.cfg.Address)
	if err != nil {
		log.Warn().Err(err).Str("addr", c.cfg.Address).Msg("client dial failed")
		return fmt.Errorf("client dial %s: %w", c.cfg.Address, err)
	}
	c.nc = nc
	c.reader = bufio.NewReader(nc)
	return nil
}

func (c *Client) drop() {
	if c.nc != nil {
		_ = c.nc.Close()
	}
	c.nc = nil
	c.reader = nil
}

func wrapErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("client %s: %w", op, ctxErr)
	}
	return fmt.Errorf("client %s: %w", op, err)
}
