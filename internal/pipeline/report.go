package pipeline

import (
	"time"

	"git.home.luguber.info/inful/gtmdocs/internal/metrics"
)

// DocumentResult is the outcome of persisting one document.
type DocumentResult struct {
	Name        string
	Bytes       int
	Fingerprint string
	// Unchanged is set when the fingerprint matches the last successful
	// write recorded in history.
	Unchanged bool
	Err       error
}

// Report summarises a run. Err is set when the run aborted before
// persisting; per-document failures are in Documents.
type Report struct {
	RunID      string
	Container  string
	Workspace  string
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  []DocumentResult
	Warnings   []string
	Err        error
}

// Failed returns the documents whose write failed.
func (r *Report) Failed() []DocumentResult {
	var out []DocumentResult
	for _, d := range r.Documents {
		if d.Err != nil {
			out = append(out, d)
		}
	}
	return out
}

// Outcome classifies the run for metrics and events.
func (r *Report) Outcome() metrics.RunOutcomeLabel {
	switch {
	case r.Err != nil:
		return metrics.RunOutcomeFailed
	case len(r.Failed()) > 0:
		return metrics.RunOutcomePartial
	default:
		return metrics.RunOutcomeSuccess
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
