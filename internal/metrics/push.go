package metrics

import (
	"context"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Pusher sends a registry to a Prometheus Pushgateway. A Pusher with an
// empty URL is disabled and Push returns nil.
type Pusher struct {
	url string
	job string
	reg prom.Gatherer
}

func NewPusher(url, job string, reg prom.Gatherer) *Pusher {
	return &Pusher{url: url, job: job, reg: reg}
}

func (p *Pusher) Enabled() bool {
	return p != nil && p.url != "" && p.reg != nil
}

// Push replaces the metrics grouped under this job and container.
func (p *Pusher) Push(ctx context.Context, container string) error {
	if !p.Enabled() {
		return nil
	}
	return push.New(p.url, p.job).
		Gatherer(p.reg).
		Grouping("container", container).
		PushContext(ctx)
}
