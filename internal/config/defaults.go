package config

import (
	"path/filepath"
)

// Default values applied when the configuration leaves a key unset.
const (
	DefaultTargetDir               = "doc"
	DefaultIndexFilename           = "index"
	DefaultSummaryHeaderLevel      = 2
	DefaultChildSummaryHeaderLevel = 3
	DefaultInitializationMarker    = "silq.initialize"
	DefaultWrapWidth               = 90
	DefaultDocumentClass           = "Notebook"
)

// defaultApplier fills in one configuration domain.
type defaultApplier func(cfg *Config)

var defaultAppliers = []defaultApplier{
	applyOutputDefaults,
	applyDiscoveryDefaults,
	applyIndexDefaults,
	applyPreprocessDefaults,
	applyOverviewDefaults,
}

func applyDefaults(cfg *Config) {
	for _, apply := range defaultAppliers {
		apply(cfg)
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	if cfg.TargetDir == "" {
		cfg.TargetDir = DefaultTargetDir
	}
	if cfg.HTMLTargetDir == "" {
		cfg.HTMLTargetDir = filepath.Join(cfg.TargetDir, "html")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = LogLevelInfo
	} else {
		cfg.LogLevel = NormalizeLogLevel(string(cfg.LogLevel))
	}
}

func applyDiscoveryDefaults(cfg *Config) {
	if cfg.IgnoreNames == nil {
		cfg.IgnoreNames = []string{"Summary"}
	}
	if cfg.DocumentClass == "" {
		cfg.DocumentClass = DefaultDocumentClass
	}
}

func applyIndexDefaults(cfg *Config) {
	if cfg.Index.Filename == "" {
		cfg.Index.Filename = DefaultIndexFilename
	}
	if cfg.Index.SummaryHeaderLevel == 0 {
		cfg.Index.SummaryHeaderLevel = DefaultSummaryHeaderLevel
	}
	if cfg.Index.ChildSummaryHeaderLevel == 0 {
		cfg.Index.ChildSummaryHeaderLevel = DefaultChildSummaryHeaderLevel
	}
}

func applyPreprocessDefaults(cfg *Config) {
	if cfg.Preprocess.InitializationMarker == "" {
		cfg.Preprocess.InitializationMarker = DefaultInitializationMarker
	}
	if cfg.Preprocess.WrapWidth == 0 {
		cfg.Preprocess.WrapWidth = DefaultWrapWidth
	}
}

func applyOverviewDefaults(cfg *Config) {
	o := cfg.MeasurementOverview
	if o == nil {
		return
	}
	if o.TempDir == "" {
		o.TempDir = filepath.Join(cfg.TargetDir, "tmp")
	}
	if o.Output == "" {
		o.Output = filepath.Join(cfg.TargetDir, "measurement_overview.html")
	}
}
