package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/matzehuels/crumbtrail/pkg/errors"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Built-in template names.
const (
	TemplateHTML = "breadcrumb.html.tmpl"
	TemplateText = "breadcrumb.txt.tmpl"
)

// executor is satisfied by both *html/template.Template and
// *text/template.Template.
type executor interface {
	Execute(w io.Writer, data any) error
}

type htmlExec struct{ t *htmltemplate.Template }

func (e htmlExec) Execute(w io.Writer, data any) error {
	return e.t.Execute(w, data)
}

type textExec struct{ t *texttemplate.Template }

func (e textExec) Execute(w io.Writer, data any) error {
	return e.t.Execute(w, data)
}

// TemplateRenderer executes named templates found in a stack of file
// systems. Earlier file systems shadow later ones, and the built-in
// templates are always searched last. A parsed template is reused until
// the file it came from changes.
type TemplateRenderer struct {
	layers []fs.FS

	mu     sync.RWMutex
	parsed map[string]parsedTemplate
}

type parsedTemplate struct {
	fingerprint string
	exec        executor
}

// NewTemplateRenderer creates a renderer that looks up templates in dirs,
// in order, before falling back to the built-in ones.
func NewTemplateRenderer(dirs ...fs.FS) *TemplateRenderer {
	builtin, _ := fs.Sub(builtinTemplates, "templates")
	layers := make([]fs.FS, 0, len(dirs)+1)
	for _, d := range dirs {
		if d != nil {
			layers = append(layers, d)
		}
	}
	return &TemplateRenderer{
		layers: append(layers, builtin),
		parsed: make(map[string]parsedTemplate),
	}
}

// Render executes the template called name with data.
func (r *TemplateRenderer) Render(ctx context.Context, name string, data Data) (string, error) {
	if err := errors.ValidateTemplateName(name); err != nil {
		return "", err
	}

	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "execute template %q", name)
	}
	return buf.String(), nil
}

// Has reports whether a template called name can be found.
func (r *TemplateRenderer) Has(name string) bool {
	_, ok := r.layerFor(name)
	return ok
}

// Fingerprint hashes the layer index and the bytes of the file name
// resolves to, so editing a template or shadowing it from another
// directory changes the result.
func (r *TemplateRenderer) Fingerprint(name string) (string, error) {
	if err := errors.ValidateTemplateName(name); err != nil {
		return "", err
	}
	_, fingerprint, err := r.read(name)
	return fingerprint, err
}

func (r *TemplateRenderer) lookup(name string) (executor, error) {
	src, fingerprint, err := r.read(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	cached, ok := r.parsed[name]
	r.mu.RUnlock()
	if ok && cached.fingerprint == fingerprint {
		return cached.exec, nil
	}

	tmpl, err := parse(name, src)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.parsed[name] = parsedTemplate{fingerprint: fingerprint, exec: tmpl}
	r.mu.Unlock()
	return tmpl, nil
}

// read returns the source of name from the first layer that has it,
// along with its fingerprint.
func (r *TemplateRenderer) read(name string) ([]byte, string, error) {
	for i, fsys := range r.layers {
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			continue
		}
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeTemplateNotFound, err, "read template %q", name)
		}
		sum := sha256.Sum256(src)
		return src, strconv.Itoa(i) + ":" + hex.EncodeToString(sum[:]), nil
	}
	return nil, "", errors.New(errors.ErrCodeTemplateNotFound, "template %q not found", name)
}

func (r *TemplateRenderer) layerFor(name string) (fs.FS, bool) {
	for _, fsys := range r.layers {
		if info, err := fs.Stat(fsys, name); err == nil && !info.IsDir() {
			return fsys, true
		}
	}
	return nil, false
}

func parse(name string, src []byte) (executor, error) {
	if strings.HasSuffix(name, ".html.tmpl") || strings.HasSuffix(name, ".html") {
		t, err := htmltemplate.New(name).Parse(string(src))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parse template %q", name)
		}
		return htmlExec{t}, nil
	}

	t, err := texttemplate.New(name).Parse(string(src))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parse template %q", name)
	}
	return textExec{t}, nil
}

var (
	_ Renderer      = (*TemplateRenderer)(nil)
	_ Fingerprinter = (*TemplateRenderer)(nil)
)
