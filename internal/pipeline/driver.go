package pipeline

import (
	"context"
	"time"

	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
	"git.home.luguber.info/inful/gtmdocs/internal/history"
	"git.home.luguber.info/inful/gtmdocs/internal/metrics"
	"git.home.luguber.info/inful/gtmdocs/internal/notify"
	"git.home.luguber.info/inful/gtmdocs/internal/storage"
)

// Settings are the per-container inputs of a run.
type Settings struct {
	AccountID   string
	ContainerID string
	// WorkspaceID overrides the first workspace reported by the source.
	WorkspaceID      string
	StrictReferences bool
	SanitizeNotes    bool
}

// HistoryStore records finished runs.
type HistoryStore interface {
	Record(ctx context.Context, run history.Run) error
	LastFingerprints(ctx context.Context, container string) (map[string]string, error)
}

// Notifier publishes run completion events.
type Notifier interface {
	Publish(ctx context.Context, event *notify.ExportCompletedEvent) error
}

// Driver runs exports for one container.
type Driver struct {
	settings Settings
	source   gtm.Source
	sink     storage.Sink
	recorder metrics.Recorder
	history  HistoryStore
	notifier Notifier
	pusher   *metrics.Pusher
	now      func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Driver) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithHistory records each run in h.
func WithHistory(h HistoryStore) Option {
	return func(d *Driver) { d.history = h }
}

// WithNotifier publishes a completion event after each run.
func WithNotifier(n Notifier) Option {
	return func(d *Driver) { d.notifier = n }
}

// WithPusher pushes metrics after each run.
func WithPusher(p *metrics.Pusher) Option {
	return func(d *Driver) { d.pusher = p }
}

func withClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// NewDriver creates a driver reading from source and writing to sink.
func NewDriver(settings Settings, source gtm.Source, sink storage.Sink, opts ...Option) *Driver {
	d := &Driver{
		settings: settings,
		source:   source,
		sink:     sink,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ContainerPath returns accounts/<account>/containers/<container>.
func (s Settings) ContainerPath() string {
	return "accounts/" + s.AccountID + "/containers/" + s.ContainerID
}
