// Package metrics records run metrics for gtmdocs exports.
//
// Components receive a Recorder through dependency injection. NoopRecorder
// is the default and does nothing; PrometheusRecorder registers collectors
// on a registry which a Pusher sends to a Prometheus Pushgateway after each
// run, the usual arrangement for batch jobs that are not scraped:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	pusher := metrics.NewPusher(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, reg)
//	...
//	_ = pusher.Push(ctx, containerID)
package metrics
