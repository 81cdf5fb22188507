// Package observability records pipeline metrics with OpenTelemetry and
// exports them in the Prometheus textfile format.
package observability
