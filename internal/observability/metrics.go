// Package observability wires Prometheus collectors into the client components
// and exports them for node_exporter's textfile collector.
package observability

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/httpclient"
	"github.com/sayah-app/sayah-go/internal/observability/metrics"
)

// Metrics owns the registry and the client collectors.
type Metrics struct {
	registry *prometheus.Registry
	Client   *metrics.ClientMetrics

	inflight sync.Map // *http.Request -> time.Time
}

// NewMetrics creates a registry with every client collector registered.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	client, err := metrics.NewClientMetrics(registry)
	if err != nil {
		return nil, errors.New(err).
			Component("metrics").
			Category(errors.CategorySystem).
			Context("operation", "register_collectors").
			Build()
	}

	return &Metrics{registry: registry, Client: client}, nil
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// InstrumentHTTPClient records every round trip made through hc.
func (m *Metrics) InstrumentHTTPClient(hc *httpclient.Client) {
	hc.SetBeforeRequestHook(func(req *http.Request) {
		m.inflight.Store(req, time.Now())
	})
	hc.SetAfterResponseHook(func(req *http.Request, resp *http.Response, err error) {
		var elapsed time.Duration
		if v, ok := m.inflight.LoadAndDelete(req); ok {
			elapsed = time.Since(v.(time.Time))
		}
		status := metrics.StatusError
		if err == nil && resp != nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		m.Client.RecordRequest(req.Method, req.URL.Path, status, elapsed)
	})
}

// ErrorHook returns a hook counting every built error.
func (m *Metrics) ErrorHook() errors.ErrorHook {
	return func(ee *errors.EnhancedError) {
		m.Client.RecordError(ee.GetComponent(), ee.GetCategory())
	}
}

// SummaryLine is one counter sample in human readable form.
type SummaryLine struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Summary returns every non-zero counter sample, sorted by name.
// Histograms are reported by their sample count.
func (m *Metrics) Summary() ([]SummaryLine, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, errors.New(err).
			Component("metrics").
			Category(errors.CategorySystem).
			Context("operation", "gather").
			Build()
	}

	var lines []SummaryLine
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value, ok := sampleValue(family.GetType(), metric)
			if !ok || value == 0 {
				continue
			}
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			lines = append(lines, SummaryLine{Name: family.GetName(), Labels: labels, Value: value})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines, nil
}

func sampleValue(kind dto.MetricType, metric *dto.Metric) (float64, bool) {
	switch kind {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue(), true
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue(), true
	case dto.MetricType_HISTOGRAM:
		return float64(metric.GetHistogram().GetSampleCount()), true
	default:
		return 0, false
	}
}
