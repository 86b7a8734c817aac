package site

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/labsite/internal/config"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/metrics"
)

func TestRunStages(t *testing.T) {
	var ran []StageName
	record := func(name StageName, err error) StageDef {
		return StageDef{Name: name, Fn: func(context.Context, *BuildState) error {
			ran = append(ran, name)
			return err
		}}
	}
	boom := stderrors.New("boom")

	tests := []struct {
		name    string
		stages  []StageDef
		wantRan []StageName
		wantErr bool
		outcome BuildOutcome
	}{
		{
			name:    "all succeed",
			stages:  []StageDef{record(StageTree, nil), record(StageIndexes, nil)},
			wantRan: []StageName{StageTree, StageIndexes},
			outcome: OutcomeSuccess,
		},
		{
			name:    "warning continues",
			stages:  []StageDef{record(StageTree, newWarnStageError(StageTree, boom)), record(StageIndexes, nil)},
			wantRan: []StageName{StageTree, StageIndexes},
			outcome: OutcomeWarning,
		},
		{
			name: "classified warning continues",
			stages: []StageDef{
				record(StageSiteLibs, errors.FileSystemError("missing").WithCause(boom).Warning().Build()),
				record(StageSearch, nil),
			},
			wantRan: []StageName{StageSiteLibs, StageSearch},
			outcome: OutcomeWarning,
		},
		{
			name:    "classified error is fatal",
			stages:  []StageDef{record(StageTree, errors.ConfigurationError("bad").WithCause(boom).Build()), record(StageIndexes, nil)},
			wantRan: []StageName{StageTree},
			wantErr: true,
			outcome: OutcomeFailed,
		},
		{
			name:    "untyped error is fatal",
			stages:  []StageDef{record(StageTree, boom), record(StageIndexes, nil)},
			wantRan: []StageName{StageTree},
			wantErr: true,
			outcome: OutcomeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran = nil
			cfg := &config.Config{Name: "lab", TargetDir: t.TempDir()}
			report, err := NewBuilder(cfg, WithStages(tt.stages...)).Build(context.Background())
			if tt.wantErr {
				require.ErrorIs(t, err, boom)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRan, ran)
			assert.Equal(t, tt.outcome, report.Outcome)
		})
	}
}

func TestRunStages_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	cfg := &config.Config{TargetDir: t.TempDir()}
	report, err := NewBuilder(cfg, WithStages(StageDef{Name: StageTree, Fn: func(context.Context, *BuildState) error {
		called = true
		return nil
	}})).Build(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, OutcomeCanceled, report.Outcome)
	assert.Equal(t, StageErrorCanceled, report.StageErrorKinds[StageTree])
}

func TestRunStages_RecordsMetrics(t *testing.T) {
	rec := metrics.NewPrometheusRecorder(nil)
	cfg := &config.Config{TargetDir: t.TempDir()}
	stages := []StageDef{
		{Name: StageTree, Fn: func(context.Context, *BuildState) error { return nil }},
		{Name: StageSearch, Fn: func(context.Context, *BuildState) error {
			return newWarnStageError(StageSearch, stderrors.New("partial"))
		}},
	}

	_, err := NewBuilder(cfg, WithRecorder(rec), WithStages(stages...)).Build(context.Background())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(rec.Registry(), "labsite_stage_results_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
