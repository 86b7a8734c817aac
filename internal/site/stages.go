package site

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/logfields"
	"git.home.luguber.info/inful/labsite/internal/metrics"
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// classify maps a stage's error onto a StageError. Classified errors with
// warning severity become warnings; anything else untyped is fatal.
func classify(stage StageName, err error) *StageError {
	var se *StageError
	if stderrors.As(err, &se) {
		return se
	}
	if errors.HasSeverity(err, errors.SeverityWarning) {
		return newWarnStageError(stage, err)
	}
	return newFatalStageError(stage, err)
}

// runStages executes stages in order, recording timing and stopping on the first fatal error.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Report.recordStage(st.Name, 0, se, bs.recorder)
			return se
		default:
		}

		slog.Debug("Stage started", logfields.Stage(string(st.Name)), logfields.BuildID(bs.Report.BuildID))
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.recorder.ObserveStageDuration(string(st.Name), dur)

		if err == nil {
			bs.Report.recordStage(st.Name, dur, nil, bs.recorder)
			continue
		}

		se := classify(st.Name, err)
		bs.Report.recordStage(st.Name, dur, se, bs.recorder)
		if se.Kind == StageErrorWarning {
			slog.Warn("Stage completed with warnings",
				logfields.Stage(string(st.Name)),
				logfields.BuildID(bs.Report.BuildID),
				slog.String("category", string(errors.GetCategory(se.Err))),
				logfields.Error(se.Err))
			continue
		}
		return se
	}
	return nil
}

func resultLabel(se *StageError) metrics.ResultLabel {
	switch {
	case se == nil:
		return metrics.ResultSuccess
	case se.Kind == StageErrorWarning:
		return metrics.ResultWarning
	default:
		return metrics.ResultFatal
	}
}
