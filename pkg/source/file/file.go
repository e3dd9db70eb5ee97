// Package file reads node collections from JSON and TOML documents.
//
// A JSON document is either an object with a "nodes" array or a bare array:
//
//	{
//	  "nodes": [
//	    {"id": 1, "parent_id": 0, "path": "/", "name": "Home"},
//	    {"id": 2, "parent_id": 1, "path": "/shop", "name": "Shop"}
//	  ]
//	}
//
// A TOML document uses an array of tables:
//
//	[[nodes]]
//	id = 1
//	path = "/"
//	name = "Home"
//
// Nodes keep document order.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

// Format names a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported node file %q (want .json or .toml)", path)
	}
}

type document[PK comparable] struct {
	Nodes []breadcrumb.Node[PK] `json:"nodes" toml:"nodes"`
}

// ReadJSON decodes a JSON node document from r. ReadJSON does not close r.
func ReadJSON[PK comparable](r io.Reader) ([]breadcrumb.Node[PK], error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if first == '[' {
		var nodes []breadcrumb.Node[PK]
		if err := json.NewDecoder(br).Decode(&nodes); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return nodes, nil
	}

	var doc document[PK]
	if err := json.NewDecoder(br).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Nodes, nil
}

// ReadTOML decodes a TOML node document from r. ReadTOML does not close r.
func ReadTOML[PK comparable](r io.Reader) ([]breadcrumb.Node[PK], error) {
	var doc document[PK]
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Nodes, nil
}

// Read decodes a document in the given format.
func Read[PK comparable](r io.Reader, format Format) ([]breadcrumb.Node[PK], error) {
	switch format {
	case FormatJSON:
		return ReadJSON[PK](r)
	case FormatTOML:
		return ReadTOML[PK](r)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

// Import reads the file at path, choosing the format by extension.
func Import[PK comparable](path string) ([]breadcrumb.Node[PK], error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeSourceNotFound, err, "node file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	nodes, err := Read[PK](f, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return nodes, nil
}

// Source is a source.Source backed by a node file.
type Source[PK comparable] struct {
	Path string
}

// New creates a file source for path.
func New[PK comparable](path string) *Source[PK] {
	return &Source[PK]{Path: path}
}

// Load implements source.Source. The file is re-read on every call.
func (s *Source[PK]) Load(ctx context.Context) ([]breadcrumb.Node[PK], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Import[PK](s.Path)
}

// Name implements source.Source.
func (s *Source[PK]) Name() string { return "file:" + s.Path }

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

var _ source.Source[source.ID] = (*Source[source.ID])(nil)
