// Package metrics records build metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics never
// need nil checks. A PrometheusRecorder collects into its own registry, which
// can be dumped in the node-exporter textfile format after a build or served
// over HTTP.
package metrics
