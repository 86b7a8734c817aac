package config

import (
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// TemplateConfig selects the page template. Keys other than template_dir
// are passed to the template as parameters.
type TemplateConfig struct {
	TemplateDir string         `mapstructure:"template_dir"`
	Params      map[string]any `mapstructure:",remain"`
}

func (t *TemplateConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	var decoded TemplateConfig
	if err := mapstructure.Decode(raw, &decoded); err != nil {
		return err
	}
	*t = decoded
	return nil
}

func (t TemplateConfig) MarshalYAML() (any, error) {
	out := make(map[string]any, len(t.Params)+1)
	for k, v := range t.Params {
		out[k] = v
	}
	if t.TemplateDir != "" {
		out["template_dir"] = t.TemplateDir
	}
	return out, nil
}
