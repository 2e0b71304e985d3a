package core

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/graphql"
	"github.com/crmarques/shopctl/resource"
)

// Session is everything a command needs to talk to one shop.
type Session struct {
	Contexts  config.ContextService
	Context   config.Context
	Transport resource.Transport
	GraphQL   *graphql.Client
	BaseURL   string
}

type BootstrapConfig struct {
	ContextCatalogPath string
	// Environ is scanned for SHOPCTL_CTX_* overrides. Nil means os.Environ().
	Environ        []string
	HTTPClient     *http.Client
	Registerer     prometheus.Registerer
	TracerProvider trace.TracerProvider
	UserAgent      string
}
