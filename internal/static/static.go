// Package static serves fixed jsontp resources declared in a TOML table.
package static

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/protocol/status"
	"github.com/danmuck/jsontp/internal/router"
	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidResource = errors.New("static: invalid resource")

// Resource is one [[resource]] entry.
type Resource struct {
	Path     string            `toml:"path"`
	Content  string            `toml:"content"`
	Encoding string            `toml:"encoding"`
	Language string            `toml:"language"`
	Status   int               `toml:"status"`
	Headers  map[string]string `toml:"headers"`
}

type document struct {
	Resources []Resource `toml:"resource"`
}

// Parse decodes and validates a resource table, filling defaults.
func Parse(data []byte) ([]Resource, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("static parse failed: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Resources))
	out := make([]Resource, 0, len(doc.Resources))
	for i, res := range doc.Resources {
		res.Path = strings.TrimSpace(res.Path)
		if res.Encoding == "" {
			res.Encoding = string(protocol.EncodingIdentity)
		}
		if res.Status == 0 {
			res.Status = 200
		}
		if err := res.validate(); err != nil {
			return nil, fmt.Errorf("resource[%d]: %w", i, err)
		}
		if _, dup := seen[res.Path]; dup {
			return nil, fmt.Errorf("resource[%d]: %w: duplicate path %q", i, ErrInvalidResource, res.Path)
		}
		seen[res.Path] = struct{}{}
		out = append(out, res)
	}
	return out, nil
}

// LoadFile reads and parses the resource table at path.
func LoadFile(path string) ([]Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("static load failed (%s): %w", path, err)
	}
	return Parse(data)
}

func (r Resource) validate() error {
	if r.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidResource)
	}
	if r.Content == "" {
		return fmt.Errorf("%w: %s: content is required", ErrInvalidResource, r.Path)
	}
	if !protocol.Encoding(r.Encoding).Valid() {
		return fmt.Errorf("%w: %s: encoding %q is not allowed", ErrInvalidResource, r.Path, r.Encoding)
	}
	if !status.InRange(r.Status) {
		return fmt.Errorf("%w: %s: status %d out of range", ErrInvalidResource, r.Path, r.Status)
	}
	return nil
}

// Handler answers every request with the resource's fixed response.
func (r Resource) Handler() router.Handler {
	lang := protocol.ParseLanguage(r.Language)
	return router.HandlerFunc(func(req *protocol.Request) protocol.Response {
		resp := req.Respond(r.Status, protocol.Body{
			Content:  r.Content,
			Encoding: protocol.Encoding(r.Encoding),
		})
		resp.Language = lang
		if len(r.Headers) > 0 {
			resp.Headers = make(map[string]any, len(r.Headers))
			for k, v := range r.Headers {
				resp.Headers[k] = v
			}
		}
		return resp
	})
}

// Registrar is the router surface the table mounts onto.
type Registrar interface {
	Register(path string, h router.Handler) error
	Unregister(path string)
	Lookup(path string) (router.Handler, bool)
}

// Table keeps the set of mounted static paths so a reload can drop
// resources removed from the file. A resource mounted over an existing
// route shadows it; removing the resource restores that route.
type Table struct {
	mu       sync.Mutex
	target   Registrar
	mounted  map[string]struct{}
	shadowed map[string]router.Handler
}

func NewTable(target Registrar) *Table {
	return &Table{
		target:   target,
		mounted:  make(map[string]struct{}),
		shadowed: make(map[string]router.Handler),
	}
}

// Mount registers resources and takes down previously mounted paths that
// are no longer present, restoring any handler they shadowed.
func (t *Table) Mount(resources []Resource) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := make(map[string]struct{}, len(resources))
	for _, res := range resources {
		if _, ours := t.mounted[res.Path]; !ours {
			if prev, ok := t.target.Lookup(res.Path); ok {
				t.shadowed[res.Path] = prev
			}
		}
		if err := t.target.Register(res.Path, res.Handler()); err != nil {
			return fmt.Errorf("static mount %s: %w", res.Path, err)
		}
		next[res.Path] = struct{}{}
		t.mounted[res.Path] = struct{}{}
	}
	for path := range t.mounted {
		if _, keep := next[path]; keep {
			continue
		}
		if prev, ok := t.shadowed[path]; ok {
			if err := t.target.Register(path, prev); err != nil {
				return fmt.Errorf("static restore %s: %w", path, err)
			}
			delete(t.shadowed, path)
		} else {
			t.target.Unregister(path)
		}
	}
	t.mounted = next
	return nil
}

// Paths returns the currently mounted paths.
func (t *Table) Paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.mounted))
	for path := range t.mounted {
		out = append(out, path)
	}
	return out
}

// MountFile loads path and mounts it.
func (t *Table) MountFile(path string) error {
	resources, err := LoadFile(path)
	if err != nil {
		return err
	}
	return t.Mount(resources)
}
