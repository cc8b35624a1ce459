// Package router maps exact resource strings to jsontp handlers.
package router

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/danmuck/jsontp/internal/protocol"
)

var (
	ErrHandlerNil   = errors.New("router: handler is nil")
	ErrEmptyPath    = errors.New("router: path is empty")
	ErrHandlerFault = errors.New("router: handler fault")
)

// Handler produces a Response for one validated Request.
type Handler interface {
	ServeJSONTP(req *protocol.Request) protocol.Response
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(req *protocol.Request) protocol.Response

func (f HandlerFunc) ServeJSONTP(req *protocol.Request) protocol.Response {
	return f(req)
}

// Router is safe for concurrent lookups while handlers are registered.
type Router struct {
	mu     sync.RWMutex
	routes map[string]Handler
	errors map[int]Handler
}

func New() *Router {
	return &Router{
		routes: make(map[string]Handler),
		errors: make(map[int]Handler),
	}
}

// Register binds h to path. A later registration for the same path wins.
func (r *Router) Register(path string, h Handler) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	if h == nil {
		return ErrHandlerNil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[path] = h
	return nil
}

func (r *Router) RegisterFunc(path string, f func(*protocol.Request) protocol.Response) error {
	if f == nil {
		return ErrHandlerNil
	}
	return r.Register(path, HandlerFunc(f))
}

// Unregister removes the handler bound to path, if any.
func (r *Router) Unregister(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.routes, path)
}

// Lookup returns the handler bound to exactly path.
func (r *Router) Lookup(path string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.routes[path]
	return h, ok
}

// Routes returns the registered paths in sorted order.
func (r *Router) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.routes))
	for path := range r.routes {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// RegisterErrorHandler binds h to a response status code. Its Response
// replaces the default body whenever that code is sent.
func (r *Router) RegisterErrorHandler(code int, h Handler) error {
	if h == nil {
		return ErrHandlerNil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[code] = h
	return nil
}

func (r *Router) ErrorHandler(code int) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.errors[code]
	return h, ok
}

// Dispatch routes req by exact resource match.
//
// found is false on a routing miss. A panicking handler is recovered and
// reported as ErrHandlerFault.
func (r *Router) Dispatch(req *protocol.Request) (resp protocol.Response, found bool, err error) {
	h, ok := r.Lookup(req.Resource)
	if !ok {
		return protocol.Response{}, false, nil
	}
	resp, err = Call(h, req)
	return resp, true, err
}

// Call runs h, converting a panic into ErrHandlerFault.
func Call(h Handler, req *protocol.Request) (resp protocol.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = protocol.Response{}
			err = fmt.Errorf("%w: %v", ErrHandlerFault, p)
		}
	}()
	return h.ServeJSONTP(req), nil
}
