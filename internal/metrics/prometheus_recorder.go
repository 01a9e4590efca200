package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "ctclsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	stageResults    *prom.CounterVec
	loadDuration    prom.Histogram
	snapshotPages   prom.Gauge
	contextDuration *prom.HistogramVec
	contextResults  *prom.CounterVec
	httpResponses   *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "load_stage_duration_seconds",
			Help:      "Duration of individual site loading stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "load_stage_results_total",
			Help:      "Site loading stage results by outcome",
		}, []string{"stage", "result"}),
		loadDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Total snapshot load duration",
			Buckets:   prom.DefBuckets,
		}),
		snapshotPages: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_pages",
			Help:      "Number of pages in the current snapshot",
		}),
		contextDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_context_duration_seconds",
			Help:      "Duration of page context builds by category",
			Buckets:   prom.DefBuckets,
		}, []string{"category"}),
		contextResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_context_results_total",
			Help:      "Page context build results by category and outcome",
		}, []string{"category", "result"}),
		httpResponses: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_responses_total",
			Help:      "HTTP responses by status code",
		}, []string{"code"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.loadDuration, pr.snapshotPages,
		pr.contextDuration, pr.contextResults, pr.httpResponses)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveLoadDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.loadDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetSnapshotPages(n int) {
	if p == nil {
		return
	}
	p.snapshotPages.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveContextDuration(category string, d time.Duration) {
	if p == nil {
		return
	}
	p.contextDuration.WithLabelValues(category).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncContextResult(category string, result ResultLabel) {
	if p == nil {
		return
	}
	p.contextResults.WithLabelValues(category, string(result)).Inc()
}

func (p *PrometheusRecorder) IncHTTPResponse(status int) {
	if p == nil {
		return
	}
	p.httpResponses.WithLabelValues(strconv.Itoa(status)).Inc()
}
