package sermon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a catalog file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// catalogDoc is the wrapped form of a catalog file: {"sermons": [...]}.
type catalogDoc struct {
	Sermons []Sermon `json:"sermons" yaml:"sermons"`
}

// LoadCatalogFile reads a catalog from a YAML or JSON file. Entries are
// returned unvalidated, in file order.
func LoadCatalogFile(path string) ([]Sermon, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	catalog, err := ParseCatalog(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return catalog, nil
}

// ParseCatalog decodes a catalog. The document may be a bare list of sermons
// or an object with a "sermons" list.
func ParseCatalog(data []byte, format Format) ([]Sermon, error) {
	switch format {
	case FormatJSON:
		return parseJSONCatalog(data)
	case FormatYAML:
		return parseYAMLCatalog(data)
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
}

func parseJSONCatalog(data []byte) ([]Sermon, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []Sermon
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return list, nil
	}

	var doc catalogDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc.Sermons, nil
}

func parseYAMLCatalog(data []byte) ([]Sermon, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var list []Sermon
		if err := node.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var doc catalogDoc
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return doc.Sermons, nil
	default:
		return nil, fmt.Errorf("decode yaml: line %d: expected a list or a mapping", node.Line)
	}
}

// WriteCatalogYAML encodes catalog as a YAML list.
func WriteCatalogYAML(catalog []Sermon) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(catalog); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
