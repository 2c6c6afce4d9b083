package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ZxlHyy/i18n-tr/pkg/key"
)

// SupportedExtensions lists the catalog serialization formats.
var SupportedExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

func formatFor(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !SupportedExtensions[ext] {
		return "", fmt.Errorf("unsupported catalog format %q (expected .json, .yaml, .yml or .toml)", ext)
	}
	if ext == ".yml" {
		return ".yaml", nil
	}
	return ext, nil
}

// Decode parses catalog data in the format named by the file's extension.
func Decode(name string, data []byte) (Table, error) {
	format, err := formatFor(name)
	if err != nil {
		return nil, err
	}

	raw := map[string]string{}
	switch format {
	case ".json":
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, err
			}
		}
	case ".yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}

	table := make(Table, len(raw))
	for k, v := range raw {
		table[key.Key(k)] = v
	}
	return table, nil
}

// Encode serializes a table in the format named by the file's extension,
// entries sorted by key so repeated runs produce identical bytes.
func Encode(name string, t Table) ([]byte, error) {
	format, err := formatFor(name)
	if err != nil {
		return nil, err
	}

	switch format {
	case ".json":
		return encodeJSON(t)
	case ".yaml":
		return encodeYAML(t)
	default:
		return encodeTOML(t)
	}
}

func encodeJSON(t Table) ([]byte, error) {
	raw := make(map[string]string, len(t))
	for k, v := range t {
		raw[string(k)] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// encoding/json emits map keys in sorted order.
	if err := enc.Encode(raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeYAML builds an explicit mapping node: plain map encoding would
// also sort keys, but the node pins the order we guarantee.
func encodeYAML(t Table) ([]byte, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range t.SortedKeys() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(k)},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t[k]},
		)
	}
	return yaml.Marshal(node)
}

func encodeTOML(t Table) ([]byte, error) {
	raw := make(map[string]string, len(t))
	for k, v := range t {
		raw[string(k)] = v
	}

	var buf bytes.Buffer
	// BurntSushi's encoder sorts map keys.
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
