package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsExportsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCartMetrics(reg)

	metrics.ObserveOperation("insert", nil, 20*time.Millisecond)
	metrics.ObserveOperation("insert", errors.New("dup"), 5*time.Millisecond)
	metrics.ObserveOperation("", nil, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_store_operations_total", map[string]string{"op": "insert", "result": ResultOK}); err != nil {
		t.Fatalf("fetch ok counter: %v", err)
	} else if got != 1 {
		t.Fatalf("expected ok=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "cart_store_operations_total", map[string]string{"op": "insert", "result": ResultError}); err != nil {
		t.Fatalf("fetch error counter: %v", err)
	} else if got != 1 {
		t.Fatalf("expected error=1, got %f", got)
	}
	if _, err := fetchCounterValue(mfs, "cart_store_operations_total", map[string]string{"op": "unknown", "result": ResultOK}); err != nil {
		t.Fatalf("empty op should be labelled unknown: %v", err)
	}

	mf := findMetricFamily(mfs, "cart_store_operation_duration_seconds")
	if mf == nil {
		t.Fatal("duration histogram not found")
	}
	for _, m := range mf.GetMetric() {
		if matchesLabels(m.GetLabel(), map[string]string{"op": "insert"}) && m.GetHistogram().GetSampleCount() != 2 {
			t.Fatalf("expected 2 insert samples, got %d", m.GetHistogram().GetSampleCount())
		}
	}
}

func TestCartMetricsStreamGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCartMetrics(reg)

	metrics.SubscriberAdded()
	metrics.SubscriberAdded()
	metrics.SubscriberRemoved()
	metrics.Emitted(3)
	metrics.Emitted(2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := gaugeValue(t, mfs, "cart_stream_subscribers"); got != 1 {
		t.Fatalf("expected 1 subscriber, got %f", got)
	}
	if got := gaugeValue(t, mfs, "cart_items"); got != 2 {
		t.Fatalf("expected cart_items=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "cart_stream_emissions_total", nil); err != nil || got != 2 {
		t.Fatalf("expected 2 emissions, got %f (%v)", got, err)
	}
}

func TestNilCartMetricsIsSafe(t *testing.T) {
	var metrics *CartMetrics
	metrics.ObserveOperation("insert", nil, time.Millisecond)
	metrics.SubscriberAdded()
	metrics.SubscriberRemoved()
	metrics.Emitted(1)

	noop := NewCartMetrics(nil)
	noop.ObserveOperation("insert", nil, time.Millisecond)
	noop.Emitted(1)
}

func gaugeValue(t *testing.T, mfs []*dto.MetricFamily, name string) float64 {
	t.Helper()
	mf := findMetricFamily(mfs, name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		t.Fatalf("gauge %q not found", name)
	}
	return mf.GetMetric()[0].GetGauge().GetValue()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, label := range pairs {
			if label.GetName() == name && label.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
