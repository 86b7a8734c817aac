package site

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/labsite/internal/config"
	"git.home.luguber.info/inful/labsite/internal/doctree"
	"git.home.luguber.info/inful/labsite/internal/logfields"
)

// TreeOptions maps the configuration onto document tree options.
func TreeOptions(cfg *config.Config) (doctree.Options, error) {
	opts := doctree.DefaultOptions()
	opts.Indexing = cfg.IndexingEnabled()
	if cfg.Index.Filename != "" {
		opts.IndexFilename = cfg.Index.Filename
	}
	if cfg.Index.SummaryHeaderLevel > 0 {
		opts.SummaryHeaderLevel = cfg.Index.SummaryHeaderLevel
	}
	if cfg.Index.ChildSummaryHeaderLevel > 0 {
		opts.ChildSummaryHeaderLevel = cfg.Index.ChildSummaryHeaderLevel
	}
	if cfg.IgnoreNames != nil {
		opts.IgnoreNames = cfg.IgnoreNames
	}
	kind, err := opts.Registry.Lookup(cfg.DocumentClass)
	if err != nil {
		return opts, err
	}
	opts.DocumentKind = kind
	return opts, nil
}

// LoadTree builds the document tree described by cfg, by manifest when
// sections are configured and by naming convention otherwise.
func LoadTree(cfg *config.Config) (*doctree.Tree, error) {
	opts, err := TreeOptions(cfg)
	if err != nil {
		return nil, err
	}
	builder := doctree.NewBuilder(opts)
	if len(cfg.Sections) == 0 {
		return builder.Build(cfg.BaseDir, cfg.Name)
	}

	entries := make([]doctree.ManifestEntry, 0, len(cfg.Sections))
	for _, s := range cfg.Sections {
		entries = append(entries, doctree.ManifestEntry{Name: s.Name, Path: s.Path, Class: s.Class})
	}
	return builder.BuildManifest(cfg.BaseDir, cfg.Name, entries)
}

func stageTree(_ context.Context, bs *BuildState) error {
	tree, err := LoadTree(bs.Config)
	if err != nil {
		return newFatalStageError(StageTree, err)
	}
	bs.Tree = tree
	return nil
}

func stageIndexes(_ context.Context, bs *BuildState) error {
	if err := bs.Tree.Compile(); err != nil {
		return newFatalStageError(StageIndexes, err)
	}

	err := bs.Tree.Root.Walk(func(n doctree.Node) error {
		switch n.(type) {
		case *doctree.Document:
			bs.Report.Documents++
		case *doctree.Folder:
			bs.Report.Indexes++
		}
		return nil
	})
	if err != nil {
		return newFatalStageError(StageIndexes, err)
	}

	slog.Info("Indexes compiled",
		logfields.BuildID(bs.Report.BuildID),
		logfields.Count(bs.Report.Indexes),
		slog.Int("documents", bs.Report.Documents))
	return nil
}
