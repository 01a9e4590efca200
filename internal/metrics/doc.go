// Package metrics provides the observability hooks for site loading, page
// context building and HTTP serving.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	loader := site.NewLoader(cfg)                    // NoopRecorder
//	loader := site.NewLoader(cfg).WithRecorder(rec)  // Prometheus
//
// PrometheusRecorder registers its collectors on a caller-supplied registry;
// HTTPHandler exposes that registry for scraping.
package metrics
