// Package metrics records overlay tick and inference statistics and exposes
// them for Prometheus.
package metrics
