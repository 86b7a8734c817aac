package site

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/labsite/internal/config"
	"git.home.luguber.info/inful/labsite/internal/export"
	"git.home.luguber.info/inful/labsite/internal/logfields"
	"git.home.luguber.info/inful/labsite/internal/metrics"
)

// Builder runs the build pipeline for one configuration.
type Builder struct {
	cfg      *config.Config
	exporter export.Exporter
	recorder metrics.Recorder
	stages   []StageDef
}

// Option customizes a Builder.
type Option func(*Builder)

// WithExporter replaces the HTML exporter.
func WithExporter(e export.Exporter) Option {
	return func(b *Builder) { b.exporter = e }
}

// WithRecorder sets the metrics recorder. Without one, a Prometheus recorder
// is used when the configuration names a metrics file.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithStages replaces the stage list.
func WithStages(stages ...StageDef) Option {
	return func(b *Builder) { b.stages = stages }
}

func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg}
	for _, opt := range opts {
		opt(b)
	}
	if b.exporter == nil {
		b.exporter = export.NewHTMLExporter()
	}
	if b.recorder == nil {
		if cfg.MetricsFile != "" {
			b.recorder = metrics.NewPrometheusRecorder(nil)
		} else {
			b.recorder = metrics.NoopRecorder{}
		}
	}
	if b.stages == nil {
		b.stages = DefaultStages()
	}
	return b
}

// Recorder returns the metrics recorder in use.
func (b *Builder) Recorder() metrics.Recorder { return b.recorder }

type textfileWriter interface {
	WriteTextfile(path string) error
}

// Build runs every stage and persists the report into the target directory.
// The report is returned even when a stage failed.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	report := newReport(uuid.NewString(), b.cfg.Name)
	bs := &BuildState{
		Config:   b.cfg,
		Report:   report,
		exporter: b.exporter,
		recorder: b.recorder,
	}

	slog.Info("Build started",
		logfields.BuildID(report.BuildID),
		logfields.Name(b.cfg.Name),
		logfields.Path(b.cfg.BaseDir))

	err := runStages(ctx, bs, b.stages)

	report.Finish()
	report.DeriveOutcome()
	b.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	b.recorder.IncBuildOutcome(report.outcomeLabel())

	if perr := report.Persist(b.cfg.TargetDir); perr != nil {
		slog.Warn("Failed to persist build report", logfields.Path(b.cfg.TargetDir), logfields.Error(perr))
	}

	if b.cfg.MetricsFile != "" {
		if tw, ok := b.recorder.(textfileWriter); ok {
			if werr := tw.WriteTextfile(b.cfg.MetricsFile); werr != nil {
				slog.Warn("Failed to write metrics file", logfields.Path(b.cfg.MetricsFile), logfields.Error(werr))
			}
		}
	}

	attrs := []any{
		logfields.BuildID(report.BuildID),
		slog.String("outcome", string(report.Outcome)),
		logfields.Count(report.RenderedPages),
		logfields.DurationMS(float64(report.End.Sub(report.Start)) / float64(time.Millisecond)),
	}
	if err != nil {
		slog.Error("Build failed", append(attrs, logfields.Error(err))...)
		return report, err
	}
	slog.Info("Build completed", attrs...)
	return report, nil
}
