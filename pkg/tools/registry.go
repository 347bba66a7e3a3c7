// Package tools assembles the tool surface offered to the model and executes
// tool calls against builtin handlers or MCP servers.
package tools

import (
	"fmt"
	"log/slog"

	"github.com/droverhq/drover/pkg/models"
)

// Registry holds the tools available to one task execution, in a stable
// advertisement order: builtins first, then MCP tools in discovery order.
type Registry struct {
	byName map[string]models.ToolDescriptor
	order  []string
}

// NewRegistry builds a registry from the builtin descriptors plus the tools
// discovered from MCP servers. On a name collision the first registration
// wins; later ones are dropped with a warning.
func NewRegistry(discovered []models.ToolDescriptor) *Registry {
	r := &Registry{byName: make(map[string]models.ToolDescriptor)}
	for _, d := range Builtins() {
		r.add(d)
	}
	for _, d := range discovered {
		r.add(d)
	}
	return r
}

func (r *Registry) add(d models.ToolDescriptor) {
	if existing, ok := r.byName[d.Name]; ok {
		slog.Warn("Tool name collision, keeping first registration",
			"tool", d.Name, "kept_server", existing.ServerID, "dropped_server", d.ServerID)
		return
	}
	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
}

// Get returns the descriptor for a tool name.
func (r *Registry) Get(name string) (models.ToolDescriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return models.ToolDescriptor{}, fmt.Errorf("unknown_tool: no tool named %q", name)
	}
	return d, nil
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Descriptors returns all tools in advertisement order.
func (r *Registry) Descriptors() []models.ToolDescriptor {
	out := make([]models.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
