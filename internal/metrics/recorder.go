package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultNotFound ResultLabel = "not_found"
	ResultInvalid  ResultLabel = "invalid"
	ResultFailed   ResultLabel = "failed"
)

// Recorder defines observability hooks for the site pipeline.
type Recorder interface {
	// ObserveStageDuration records one site loading stage (fonts, themes, favicons, ...).
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	// ObserveLoadDuration records a complete snapshot load.
	ObserveLoadDuration(d time.Duration)
	SetSnapshotPages(n int)
	ObserveContextDuration(category string, d time.Duration)
	IncContextResult(category string, result ResultLabel)
	IncHTTPResponse(status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)   {}
func (NoopRecorder) IncStageResult(string, ResultLabel)           {}
func (NoopRecorder) ObserveLoadDuration(time.Duration)            {}
func (NoopRecorder) SetSnapshotPages(int)                         {}
func (NoopRecorder) ObserveContextDuration(string, time.Duration) {}
func (NoopRecorder) IncContextResult(string, ResultLabel)         {}
func (NoopRecorder) IncHTTPResponse(int)                          {}
