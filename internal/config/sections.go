package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Section is one named top-level entry of the manifest.
type Section struct {
	Name string `mapstructure:"-"`
	// Path is relative to the base directory.
	Path string `mapstructure:"path"`
	// Class selects the document kind, e.g. "LogNotebook".
	Class string `mapstructure:"notebook_class"`
}

// Sections keeps manifest entries in file order. In YAML it is a mapping
// whose values are either a path or {path, notebook_class}:
//
//	sections:
//	  Setup: 1 - Setup.ipynb
//	  Runs:
//	    path: 2 - Runs
//	    notebook_class: LogNotebook
type Sections []Section

func (s *Sections) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*s = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sections must map names to paths", node.Line)
	}

	out := make(Sections, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if seen[key.Value] {
			return fmt.Errorf("line %d: duplicate section %q", key.Line, key.Value)
		}
		seen[key.Value] = true

		var raw any
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: section %q: %w", value.Line, key.Value, err)
		}
		section, err := decodeSection(key.Value, raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		out = append(out, section)
	}
	*s = out
	return nil
}

func decodeSection(name string, raw any) (Section, error) {
	section := Section{Name: name}
	switch v := raw.(type) {
	case string:
		section.Path = v
	case map[string]any:
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &section,
			ErrorUnused: true,
		})
		if err != nil {
			return Section{}, err
		}
		if err := decoder.Decode(v); err != nil {
			return Section{}, fmt.Errorf("section %q: %w", name, err)
		}
	default:
		return Section{}, fmt.Errorf("section %q: expected a path or a mapping, got %T", name, raw)
	}
	if section.Path == "" {
		return Section{}, fmt.Errorf("section %q: path is required", name)
	}
	return section, nil
}

func (s Sections) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range s {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: section.Name}
		var value yaml.Node
		var err error
		if section.Class == "" {
			err = value.Encode(section.Path)
		} else {
			err = value.Encode(map[string]string{"path": section.Path, "notebook_class": section.Class})
		}
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, &value)
	}
	return node, nil
}
