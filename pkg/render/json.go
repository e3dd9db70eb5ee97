package render

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/crumbtrail/pkg/errors"
)

// NameJSON selects the JSON renderer in a [Registry].
const NameJSON = "json"

// JSONRenderer encodes Data as indented JSON. The name is ignored.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(ctx context.Context, name string, data Data) (string, error) {
	if data.Crumbs == nil {
		data.Crumbs = []Crumb{}
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode breadcrumb json")
	}
	return string(out) + "\n", nil
}

var _ Renderer = JSONRenderer{}
