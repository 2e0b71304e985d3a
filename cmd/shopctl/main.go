package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/core"
	"github.com/crmarques/shopctl/internal/cli"
	"github.com/crmarques/shopctl/internal/cli/version"
)

// metricsFileEnvVar names a file that receives the request metrics of the
// run in the Prometheus text format, e.g. for node_exporter's textfile
// collector.
const metricsFileEnvVar = "SHOPCTL_METRICS_FILE"

func main() {
	registry := prometheus.NewRegistry()
	bootstrap := core.BootstrapConfig{
		Registerer: registry,
		UserAgent:  version.UserAgent(),
	}

	deps := cli.Dependencies{
		Contexts: core.NewContextService(bootstrap),
		NewSession: func(ctx context.Context, selection config.ContextSelection) (core.Session, error) {
			return core.NewSession(ctx, bootstrap, selection)
		},
	}

	err := cli.Execute(deps)
	if metricsErr := writeMetrics(os.Getenv(metricsFileEnvVar), registry); metricsErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "warning: %v\n", metricsErr)
	}
	if err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}

func writeMetrics(path string, gatherer prometheus.Gatherer) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
