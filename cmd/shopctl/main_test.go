package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestWriteMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "shopctl_test_total", Help: "test counter"})
	registry.MustRegister(counter)
	counter.Add(2)

	path := filepath.Join(t.TempDir(), "shopctl.prom")
	if err := writeMetrics(path, registry); err != nil {
		t.Fatalf("writeMetrics returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), "shopctl_test_total 2") {
		t.Fatalf("expected counter in metrics file, got %q", string(data))
	}
}

func TestWriteMetricsSkipsEmptyPath(t *testing.T) {
	t.Parallel()

	if err := writeMetrics("  ", prometheus.NewRegistry()); err != nil {
		t.Fatalf("expected no error without a path, got %v", err)
	}
}
