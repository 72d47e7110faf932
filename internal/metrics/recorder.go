package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFailed  ResultLabel = "failed"
)

// RunOutcomeLabel is the final status of an export run.
type RunOutcomeLabel string

const (
	RunOutcomeSuccess RunOutcomeLabel = "success"
	// RunOutcomePartial means documents were rendered but at least one write failed.
	RunOutcomePartial RunOutcomeLabel = "partial"
	RunOutcomeFailed  RunOutcomeLabel = "failed"
)

// Recorder defines observability hooks for export runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome RunOutcomeLabel)
	IncDocumentWrite(document string, success bool)
	SetEntityCount(kind string, n int)
	SetLastSuccess(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)              {}
func (NoopRecorder) IncDocumentWrite(string, bool)              {}
func (NoopRecorder) SetEntityCount(string, int)                 {}
func (NoopRecorder) SetLastSuccess(time.Time)                   {}
