package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigurationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Name:      "Lab notebook",
		BaseDir:   ".",
		TargetDir: DefaultTargetDir,
		Sections: Sections{
			{Name: "Setup", Path: "1 - Setup.ipynb"},
			{Name: "Measurements", Path: "2 - Measurements", Class: "LogNotebook"},
		},
		Index: IndexConfig{
			Filename:                DefaultIndexFilename,
			SummaryHeaderLevel:      DefaultSummaryHeaderLevel,
			ChildSummaryHeaderLevel: DefaultChildSummaryHeaderLevel,
		},
		Template: TemplateConfig{Params: map[string]any{"author": "${USER}"}},
		Preprocess: PreprocessConfig{
			InitializationMarker: DefaultInitializationMarker,
			WrapWidth:            DefaultWrapWidth,
		},
		LogLevel: LogLevelInfo,
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode example configuration").Build()
	}
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
