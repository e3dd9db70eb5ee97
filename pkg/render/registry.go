package render

import (
	"context"
	"sync"
)

// Registry routes a render request to the renderer registered for its name.
// Names without a registration go to the fallback, normally a
// [TemplateRenderer].
type Registry struct {
	mu       sync.RWMutex
	named    map[string]Renderer
	fallback Renderer
}

// NewRegistry creates a registry with the JSON, DOT, SVG and terminal
// renderers registered and fallback handling every other name. A nil
// fallback means a TemplateRenderer over the built-in templates.
func NewRegistry(fallback Renderer) *Registry {
	if fallback == nil {
		fallback = NewTemplateRenderer()
	}
	return &Registry{
		named: map[string]Renderer{
			NameJSON: JSONRenderer{},
			NameDOT:  DOTRenderer{},
			NameSVG:  DOTRenderer{},
			NameTerm: NewTerminalRenderer(),
		},
		fallback: fallback,
	}
}

// Register binds name to r, replacing any previous binding.
func (reg *Registry) Register(name string, r Renderer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.named[name] = r
}

// Render implements Renderer.
func (reg *Registry) Render(ctx context.Context, name string, data Data) (string, error) {
	reg.mu.RLock()
	r, ok := reg.named[name]
	reg.mu.RUnlock()
	if !ok {
		r = reg.fallback
	}
	return r.Render(ctx, name, data)
}

// Fingerprint identifies what name renders with. Registered formats are
// identified by name alone; other names defer to the fallback when it is a
// Fingerprinter.
func (reg *Registry) Fingerprint(name string) (string, error) {
	reg.mu.RLock()
	_, ok := reg.named[name]
	reg.mu.RUnlock()
	if ok {
		return "format:" + name, nil
	}
	if fp, ok := reg.fallback.(Fingerprinter); ok {
		return fp.Fingerprint(name)
	}
	return "", nil
}

var (
	_ Renderer      = (*Registry)(nil)
	_ Fingerprinter = (*Registry)(nil)
)
