// Package notify publishes export completion events to NATS.
package notify

import "time"

// ExportCompletedEvent is published once per export run, whatever its outcome.
type ExportCompletedEvent struct {
	RunID       string          `json:"run_id"`
	AccountID   string          `json:"account_id"`
	ContainerID string          `json:"container_id"`
	WorkspaceID string          `json:"workspace_id,omitempty"`
	Outcome     string          `json:"outcome"` // success|partial|failed
	Error       string          `json:"error,omitempty"`
	Warnings    int             `json:"warnings"`
	Documents   []DocumentEvent `json:"documents,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
}

// DocumentEvent describes one persisted document.
type DocumentEvent struct {
	Name        string `json:"name"`
	Bytes       int    `json:"bytes"`
	Fingerprint string `json:"fingerprint"`
	Error       string `json:"error,omitempty"`
}
