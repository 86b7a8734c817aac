package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

const maxHeaderLevel = 6

// Validate checks a loaded configuration. Failures are configuration errors
// naming the offending key.
func Validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateIndex,
		validatePreprocess,
		validateOverview,
	}
	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			return err
		}
	}
	return nil
}

func invalid(key, message string, value any) error {
	return errors.ConfigurationError(message).
		WithContext("key", key).
		WithContext("value", value).
		Build()
}

func validateIndex(cfg *Config) error {
	if strings.ContainsAny(cfg.Index.Filename, `/\`) || cfg.Index.Filename != filepath.Base(cfg.Index.Filename) {
		return invalid("index.filename", "index filename must be a bare name", cfg.Index.Filename)
	}
	if l := cfg.Index.SummaryHeaderLevel; l < 1 || l > maxHeaderLevel {
		return invalid("index.summary_header_level", "header level must be between 1 and 6", l)
	}
	if l := cfg.Index.ChildSummaryHeaderLevel; l < 1 || l > maxHeaderLevel {
		return invalid("index.child_summary_header_level", "header level must be between 1 and 6", l)
	}
	return nil
}

func validatePreprocess(cfg *Config) error {
	if cfg.Preprocess.WrapWidth < 1 {
		return invalid("preprocess.wrap_width", "wrap width must be positive", cfg.Preprocess.WrapWidth)
	}
	return nil
}

func validateOverview(cfg *Config) error {
	o := cfg.MeasurementOverview
	if o == nil {
		return nil
	}
	if o.Folder == "" {
		return invalid("measurement_overview.folder", "measurement overview folder is required", o.Folder)
	}
	if o.Header == "" {
		return invalid("measurement_overview.header", "measurement overview header notebook is required", o.Header)
	}
	if o.Start < 0 || o.End < 0 {
		return invalid("measurement_overview.start", "cell range must not be negative", [2]int{o.Start, o.End})
	}
	if o.End != 0 && o.End <= o.Start {
		return invalid("measurement_overview.end", "end must be greater than start", [2]int{o.Start, o.End})
	}
	return nil
}
