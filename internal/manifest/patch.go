package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	manifestKeys = []string{"title", "name", "version", "description", "license", "site", "server", "composer", "src"}
	composerKeys = []string{"require", "repositories", "extra", "config", "minimum-stability", "prefer-stable", "in-app", "app"}
)

// decodeTree decodes content into a generic document.
func decodeTree(content []byte, format Format) (map[string]any, error) {
	tree := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &tree); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(content, &tree); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, fmt.Errorf("JSON parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown file format")
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, nil
}

// unmodeled returns the entries of tree whose keys are not in known, or nil.
func unmodeled(tree map[string]any, known []string) map[string]any {
	var out map[string]any
	for k, v := range tree {
		if slices.Contains(known, k) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

// update is one subtree the collection flows own.
type update struct {
	path  []string
	value any
}

// updates lists the subtrees of m that Save writes into an existing document.
func updates(m *Manifest) []update {
	var out []update
	if len(m.Server.Proxies) > 0 {
		out = append(out, update{[]string{"server", "proxies"}, m.Server.Proxies})
	}
	if m.Composer != nil {
		if len(m.Composer.Require) > 0 {
			out = append(out, update{[]string{"composer", "require"}, m.Composer.Require})
		}
		if len(m.Composer.Repositories) > 0 {
			out = append(out, update{[]string{"composer", "repositories"}, m.Composer.Repositories})
		}
	}
	return out
}

// patch writes the subtrees from updates into the existing document.
func patch(existing []byte, m *Manifest, format Format) ([]byte, error) {
	if format == FormatYAML {
		return patchYAML(existing, m)
	}

	tree, err := decodeTree(existing, format)
	if err != nil {
		return nil, err
	}
	for _, u := range updates(m) {
		if err := setPath(tree, u.path, u.value); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(tree); err != nil {
			return nil, fmt.Errorf("TOML encode error: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree); err != nil {
			return nil, fmt.Errorf("JSON encode error: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func setPath(tree map[string]any, path []string, value any) error {
	parent := tree
	for _, key := range path[:len(path)-1] {
		switch child := parent[key].(type) {
		case map[string]any:
			parent = child
		case nil:
			next := map[string]any{}
			parent[key] = next
			parent = next
		default:
			return fmt.Errorf("cannot update %s: %s is not a mapping", joinPath(path), key)
		}
	}
	parent[path[len(path)-1]] = value
	return nil
}

// patchYAML edits the node tree of the existing document so comments,
// key order and unmodeled keys are kept.
func patchYAML(existing []byte, m *Manifest) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(existing, &doc); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("YAML patch error: manifest root is not a mapping")
	}

	for _, u := range updates(m) {
		parent := doc.Content[0]
		for _, key := range u.path[:len(u.path)-1] {
			child, err := childMapping(parent, key)
			if err != nil {
				return nil, fmt.Errorf("cannot update %s: %w", joinPath(u.path), err)
			}
			parent = child
		}

		var value yaml.Node
		if err := value.Encode(u.value); err != nil {
			return nil, fmt.Errorf("YAML encode error: %w", err)
		}
		setKey(parent, u.path[len(u.path)-1], &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("YAML encode error: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("YAML encode error: %w", err)
	}
	return buf.Bytes(), nil
}

// childMapping returns the mapping stored under key, creating it when the
// key is missing or null.
func childMapping(parent *yaml.Node, key string) (*yaml.Node, error) {
	for i := 0; i+1 < len(parent.Content); i += 2 {
		if parent.Content[i].Value != key {
			continue
		}
		value := parent.Content[i+1]
		switch {
		case value.Kind == yaml.MappingNode:
			return value, nil
		case value.Kind == yaml.ScalarNode && value.Tag == "!!null":
			mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", LineComment: value.LineComment}
			parent.Content[i+1] = mapping
			return mapping, nil
		default:
			return nil, fmt.Errorf("%s is not a mapping", key)
		}
	}
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setKey(parent, key, mapping)
	return mapping, nil
}

func setKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			value.LineComment = mapping.Content[i+1].LineComment
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}

// Document returns m as a generic JSON-shaped document with the unmodeled
// keys merged back in.
func (m *Manifest) Document() (map[string]any, error) {
	content, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("JSON encode error: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	for k, v := range m.Other {
		doc[k] = v
	}
	if m.Composer != nil && len(m.Composer.Other) > 0 {
		composer, _ := doc["composer"].(map[string]any)
		if composer == nil {
			composer = map[string]any{}
			doc["composer"] = composer
		}
		for k, v := range m.Composer.Other {
			composer[k] = v
		}
	}
	return doc, nil
}
