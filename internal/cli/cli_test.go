package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/crumbtrail/internal/config"
	"github.com/matzehuels/crumbtrail/pkg/errors"
)

const navJSON = `{
  "nodes": [
    {"id": 1, "path": "/", "name": "Home"},
    {"id": 2, "parent_id": 1, "path": "/shop/", "name": "Shop"},
    {"id": 3, "parent_id": 2, "path": "/shop/shoes", "name": "Shoes"},
    {"id": 4, "parent_id": 1, "path": "/about"}
  ]
}`

func writeNodes(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "nav.json")
	if err := os.WriteFile(path, []byte(navJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	nav := writeNodes(t, dir)
	cfg := writeConfig(t, dir, "[cache]\nbackend = \"none\"\n")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default html",
			args: []string{"--path", "/shop/shoes"},
			want: []string{`<nav class="breadcrumb"`, `href="/shop/"`, `aria-current="page">Shoes<`},
		},
		{
			name: "json with prefix",
			args: []string{"--path", "/shop/shoes", "-t", "json", "--prefix", "https://example.com/"},
			want: []string{`"path": "https://example.com/shop/shoes"`, `"current": true`},
		},
		{
			name: "text with connector",
			args: []string{"--path", "/shop/shoes", "-t", "breadcrumb.txt.tmpl", "--connector", ">"},
			want: []string{"Home > Shop > Shoes"},
		},
		{
			name: "unnamed node labelled by path",
			args: []string{"--path", "/about", "-t", "breadcrumb.txt.tmpl"},
			want: []string{"Home / /about"},
		},
		{
			name: "dot",
			args: []string{"--path", "/shop/", "-t", "dot"},
			want: []string{"digraph"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", nav, "--config", cfg}, tt.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("render error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("render output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRenderCommand_ConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeNodes(t, dir)
	cfg := writeConfig(t, dir, `connector = "»"
template = "breadcrumb.txt.tmpl"

[source]
path = "nav.json"

[cache]
backend = "none"
`)

	out, err := runCLI(t, "render", "--path", "/shop/shoes", "--config", cfg)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "Home » Shop » Shoes") {
		t.Errorf("render output = %q, want trail from config defaults", out)
	}
}

func TestRenderCommand_NoMatch(t *testing.T) {
	dir := t.TempDir()
	nav := writeNodes(t, dir)
	cfg := writeConfig(t, dir, "[cache]\nbackend = \"none\"\n")

	out, err := runCLI(t, "render", nav, "--path", "/missing", "--config", cfg)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "" {
		t.Errorf("render output = %q, want empty", out)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	nav := writeNodes(t, dir)
	cfg := writeConfig(t, dir, "[cache]\nbackend = \"none\"\n")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad prefix", []string{"render", nav, "--path", "/", "--prefix", "ftp://x"}, errors.ErrCodeInvalidURLPrefix},
		{"bad template", []string{"render", nav, "--path", "/", "-t", "../etc/passwd"}, errors.ErrCodeInvalidTemplate},
		{"unknown template", []string{"render", nav, "--path", "/", "-t", "nope.tmpl"}, errors.ErrCodeTemplateNotFound},
		{"missing file", []string{"render", filepath.Join(dir, "nope.json"), "--path", "/"}, errors.ErrCodeSourceNotFound},
		{"no source", []string{"render", "--path", "/"}, errors.ErrCodeInvalidInput},
		{"open without output", []string{"render", nav, "--path", "/", "--open"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append(tt.args, "--config", cfg)...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

const trailJSON = `{
  "nodes": [
    {"id": 1, "path": "/", "name": "Home"},
    {"id": 2, "parent_id": 1, "path": "/docs/", "name": "Docs"},
    {"id": 3, "parent_id": 2, "path": "/docs/install", "name": "Install"}
  ]
}`

func writeTrail(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "trail.json")
	if err := os.WriteFile(path, []byte(trailJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand_TreeMode(t *testing.T) {
	dir := t.TempDir()
	trail := writeTrail(t, dir)
	cfg := writeConfig(t, dir, "[cache]\nbackend = \"none\"\n")

	out, err := runCLI(t, "render", trail, "-t", "breadcrumb.txt.tmpl", "--config", cfg)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "Home / Docs / Install") {
		t.Errorf("render output = %q, want every node in input order", out)
	}
}

func TestRenderCommand_TreeModeSharedParent(t *testing.T) {
	dir := t.TempDir()
	nav := writeNodes(t, dir) // /shop/ and /about share parent 1
	cfg := writeConfig(t, dir, "[cache]\nbackend = \"none\"\n")

	for _, args := range [][]string{
		{"render", nav, "--config", cfg},
		{"render", nav, "--path", "  ", "--config", cfg},
		{"resolve", nav, "--config", cfg},
	} {
		_, err := runCLI(t, args...)
		if !errors.Is(err, errors.ErrCodeInvalidTreeStructure) {
			t.Errorf("%v error = %v, want code %s", args, err, errors.ErrCodeInvalidTreeStructure)
		}
		if !errors.IsUsage(err) {
			t.Errorf("%v: tree errors should be usage errors", args)
		}
	}
}

func TestResolveCommand_TreeMode(t *testing.T) {
	dir := t.TempDir()
	trail := writeTrail(t, dir)
	cfg := writeConfig(t, dir, "")

	out, err := runCLI(t, "resolve", trail, "--config", cfg)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	for _, want := range []string{"Home", "Docs", "Install", "/docs/install"} {
		if !strings.Contains(out, want) {
			t.Errorf("resolve output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	nav := writeNodes(t, dir)
	cfg := writeConfig(t, dir, "[cache]\nbackend = \"none\"\n")
	output := filepath.Join(dir, "crumbs.html")

	out, err := runCLI(t, "render", nav, "--path", "/shop/", "-o", output, "--config", cfg)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty when writing a file", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `aria-current="page">Shop<`) {
		t.Errorf("output file = %s", data)
	}
}

func TestResolveCommand(t *testing.T) {
	dir := t.TempDir()
	nav := writeNodes(t, dir)
	cfg := writeConfig(t, dir, "")

	out, err := runCLI(t, "resolve", nav, "--path", "/shop/shoes", "--prefix", "https://example.com", "--config", cfg)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	for _, want := range []string{"Home", "Shop", "Shoes", "https://example.com/shop/shoes"} {
		if !strings.Contains(out, want) {
			t.Errorf("resolve output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/about") {
		t.Errorf("resolve output contains a node outside the chain:\n%s", out)
	}
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	nav := writeNodes(t, dir)
	cfg := writeConfig(t, dir, "[cache]\nbackend = \"none\"\n")
	db := filepath.Join(dir, "site.db")

	if _, err := runCLI(t, "import", nav, "--sqlite", db, "--config", cfg); err != nil {
		t.Fatalf("import error: %v", err)
	}

	out, err := runCLI(t, "render", db, "--path", "/shop/shoes", "-t", "breadcrumb.txt.tmpl", "--config", cfg)
	if err != nil {
		t.Fatalf("render from sqlite error: %v", err)
	}
	if !strings.Contains(out, "Home / Shop / Shoes") {
		t.Errorf("render from sqlite = %q", out)
	}
}

func TestImportCommand_NeedsTarget(t *testing.T) {
	dir := t.TempDir()
	nav := writeNodes(t, dir)
	cfg := writeConfig(t, dir, "")

	if _, err := runCLI(t, "import", nav, "--config", cfg); err == nil {
		t.Error("import without --sqlite or --mongo should fail")
	}
	if _, err := runCLI(t, "import", nav, "--sqlite", "x.db", "--mongo", "--config", cfg); err == nil {
		t.Error("import with both targets should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")

	out, err := runCLI(t, "completion", "bash", "--config", cfg)
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "crumbtrail") {
		t.Error("bash completion does not mention crumbtrail")
	}
}

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"nav.json", config.SourceFile},
		{"nav.toml", config.SourceFile},
		{"site.db", config.SourceSQLite},
		{"site.SQLITE", config.SourceSQLite},
		{"site.sqlite3", config.SourceSQLite},
	}

	for _, tt := range tests {
		if got := kindForPath(tt.path); got != tt.want {
			t.Errorf("kindForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestHasSource(t *testing.T) {
	c := &CLI{Config: config.Default()}
	if c.hasSource(sourceFlags{}) {
		t.Error("hasSource() = true with no path configured")
	}
	if !c.hasSource(sourceFlags{path: "nav.json"}) {
		t.Error("hasSource() = false with a path flag")
	}

	c.Config.Source.Kind = config.SourceMongo
	if !c.hasSource(sourceFlags{}) {
		t.Error("hasSource() = false for a mongo source")
	}
}

func TestKeyer(t *testing.T) {
	c := &CLI{Config: config.Default()}
	plain := c.keyer().NodesKey("src", "")

	c.Config.Cache.Backend = config.CacheRedis
	scoped := c.keyer().NodesKey("src", "")

	if !strings.HasPrefix(scoped, "crumbtrail:") {
		t.Errorf("redis keyer key = %q, want crumbtrail: prefix", scoped)
	}
	if scoped != "crumbtrail:"+plain {
		t.Errorf("redis keyer key = %q, want prefixed %q", scoped, plain)
	}
}
