// Package tools exposes watchlist and catalog operations as named tools with
// JSON arguments, for agent clients that drive the service by name.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cesargomez89/watchlist/internal/domain"
)

// Param describes one tool argument.
type Param struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Required    bool     `json:"required"`
}

// HandlerFunc runs a tool against raw JSON arguments.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []Param     `json:"params"`
	Handler     HandlerFunc `json:"-"`
}

// Result is the outcome of one invocation.
type Result struct {
	ID     string `json:"id"`
	Tool   string `json:"tool"`
	Output any    `json:"output"`
}

// Registry holds the available tools by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds or replaces a tool.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns every tool sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Invoke runs the named tool. Unknown names yield ErrNotFound; errors from
// the tool are returned unchanged.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown tool %q", domain.ErrNotFound, name)
	}

	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}

	out, err := t.Handler(ctx, args)
	if err != nil {
		return nil, err
	}
	return &Result{ID: uuid.New().String(), Tool: name, Output: out}, nil
}

// decodeArgs strictly decodes tool arguments into dst.
func decodeArgs(args json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid arguments: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}
