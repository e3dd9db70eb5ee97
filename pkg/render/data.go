package render

import (
	"context"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
)

// Renderer produces output for the template or format called name.
type Renderer interface {
	Render(ctx context.Context, name string, data Data) (string, error)
}

// Fingerprinter is implemented by renderers whose output for a name
// depends on more than the name, such as template files that can change on
// disk. Equal fingerprints mean equal output for equal data.
type Fingerprinter interface {
	Fingerprint(name string) (string, error)
}

// Crumb is one rendered entry of a trail.
type Crumb struct {
	Name    string         `json:"name"`
	Path    string         `json:"path"`
	Current bool           `json:"current,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Data is everything a renderer sees.
type Data struct {
	Crumbs    []Crumb `json:"crumbs"`
	Connector string  `json:"connector"`
}

// Current returns the last crumb, or the zero Crumb for an empty trail.
func (d Data) Current() Crumb {
	if len(d.Crumbs) == 0 {
		return Crumb{}
	}
	return d.Crumbs[len(d.Crumbs)-1]
}

// Links returns every crumb except the current one.
func (d Data) Links() []Crumb {
	if len(d.Crumbs) == 0 {
		return nil
	}
	return d.Crumbs[:len(d.Crumbs)-1]
}

// FromChain converts a chain into render data. The last node is marked
// current and nodes without a name are labelled with their path.
func FromChain[PK comparable](chain breadcrumb.Chain[PK], connector string) Data {
	crumbs := make([]Crumb, len(chain))
	for i, n := range chain {
		crumbs[i] = Crumb{
			Name:    n.Label(),
			Path:    n.Path,
			Current: i == len(chain)-1,
			Meta:    n.Meta,
		}
	}
	return Data{Crumbs: crumbs, Connector: connector}
}
