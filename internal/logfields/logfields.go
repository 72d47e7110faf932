package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDocument   = "document"
	KeyKind       = "kind"
	KeyEntityID   = "entity_id"
	KeyContainer  = "container"
	KeyAccount    = "account"
	KeyWorkspace  = "workspace"
	KeyBackend    = "backend"
	KeyBytes      = "bytes"
	KeyCount      = "count"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Document(name string) slog.Attr   { return slog.String(KeyDocument, name) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func EntityID(id string) slog.Attr     { return slog.String(KeyEntityID, id) }
func Container(path string) slog.Attr  { return slog.String(KeyContainer, path) }
func Account(id string) slog.Attr      { return slog.String(KeyAccount, id) }
func Workspace(id string) slog.Attr    { return slog.String(KeyWorkspace, id) }
func Backend(name string) slog.Attr    { return slog.String(KeyBackend, name) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
