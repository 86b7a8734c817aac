package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/labsite/internal/linkverify"
	"git.home.luguber.info/inful/labsite/internal/metrics"
)

// Report file names written into the target directory.
const (
	ReportJSONFilename = "build-report.json"
	ReportTextFilename = "build-report.txt"
)

// BuildOutcome is the final build result.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// PageReport describes one rendered page.
type PageReport struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	Kind        string `json:"kind"`
	Fingerprint string `json:"fingerprint"`
}

// Report captures what a build did.
type Report struct {
	SchemaVersion   int
	BuildID         string
	Name            string
	Start           time.Time
	End             time.Time
	Outcome         BuildOutcome
	Errors          []error
	Warnings        []error
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	Documents       int
	Indexes         int
	RenderedPages   int
	Pages           []PageReport
	BrokenLinks     []linkverify.BrokenLink
}

func newReport(buildID, name string) *Report {
	return &Report{
		SchemaVersion:   1,
		BuildID:         buildID,
		Name:            name,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
	}
}

// recordStage stores a stage's duration and classification and counts the result.
func (r *Report) recordStage(stage StageName, d time.Duration, se *StageError, recorder metrics.Recorder) {
	r.StageDurations[stage] = d
	if se != nil {
		r.StageErrorKinds[stage] = se.Kind
		if se.Kind == StageErrorWarning {
			r.Warnings = append(r.Warnings, se)
		} else {
			r.Errors = append(r.Errors, se)
		}
	}
	if recorder != nil {
		recorder.IncStageResult(string(stage), resultLabel(se))
	}
}

// Finish sets the end time of the report.
func (r *Report) Finish() { r.End = time.Now() }

// DeriveOutcome sets Outcome from the recorded errors and warnings.
func (r *Report) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

func (r *Report) outcomeLabel() metrics.BuildOutcomeLabel {
	switch r.Outcome {
	case OutcomeSuccess:
		return metrics.BuildOutcomeSuccess
	case OutcomeWarning:
		return metrics.BuildOutcomeWarning
	default:
		return metrics.BuildOutcomeFailed
	}
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("build=%s name=%q duration=%s documents=%d indexes=%d rendered=%d broken_links=%d errors=%d warnings=%d outcome=%s",
		r.BuildID, r.Name, dur.Truncate(time.Millisecond), r.Documents, r.Indexes, r.RenderedPages,
		len(r.BrokenLinks), len(r.Errors), len(r.Warnings), r.Outcome)
}

// Persist writes the JSON report and the text summary into root.
func (r *Report) Persist(root string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}

	jb, err := json.MarshalIndent(r.Serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportJSONFilename), jb); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(root, ReportTextFilename), []byte(r.Summary()+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReportSerializable is the JSON shape of a Report.
type ReportSerializable struct {
	SchemaVersion    int                     `json:"schema_version"`
	BuildID          string                  `json:"build_id"`
	Name             string                  `json:"name"`
	Start            time.Time               `json:"start"`
	End              time.Time               `json:"end"`
	Outcome          string                  `json:"outcome"`
	Errors           []string                `json:"errors"`
	Warnings         []string                `json:"warnings"`
	StageDurationsMS map[string]int64        `json:"stage_durations_ms"`
	StageErrorKinds  map[string]string       `json:"stage_error_kinds"`
	Documents        int                     `json:"documents"`
	Indexes          int                     `json:"indexes"`
	RenderedPages    int                     `json:"rendered_pages"`
	Pages            []PageReport            `json:"pages"`
	BrokenLinks      []linkverify.BrokenLink `json:"broken_links"`
}

// Serializable returns the JSON shape of the report.
func (r *Report) Serializable() *ReportSerializable {
	s := &ReportSerializable{
		SchemaVersion:    r.SchemaVersion,
		BuildID:          r.BuildID,
		Name:             r.Name,
		Start:            r.Start,
		End:              r.End,
		Outcome:          string(r.Outcome),
		Errors:           errorStrings(r.Errors),
		Warnings:         errorStrings(r.Warnings),
		StageDurationsMS: make(map[string]int64, len(r.StageDurations)),
		StageErrorKinds:  make(map[string]string, len(r.StageErrorKinds)),
		Documents:        r.Documents,
		Indexes:          r.Indexes,
		RenderedPages:    r.RenderedPages,
		Pages:            r.Pages,
		BrokenLinks:      r.BrokenLinks,
	}
	for k, v := range r.StageDurations {
		s.StageDurationsMS[string(k)] = v.Milliseconds()
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	if s.Pages == nil {
		s.Pages = []PageReport{}
	}
	if s.BrokenLinks == nil {
		s.BrokenLinks = []linkverify.BrokenLink{}
	}
	return s
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
