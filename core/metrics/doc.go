// Package metrics exposes Prometheus metrics for sync runs.
package metrics
