// Package daemon runs exports repeatedly: on a cron schedule, or whenever
// a watched file changes.
package daemon
