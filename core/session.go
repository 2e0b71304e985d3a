package core

import (
	"context"
	"os"
	"strings"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/graphql"
	configfile "github.com/crmarques/shopctl/internal/providers/config/file"
	httpgateway "github.com/crmarques/shopctl/internal/providers/transport/http"
)

func NewContextService(opts BootstrapConfig) config.ContextService {
	return configfile.NewFileContextService(opts.ContextCatalogPath)
}

// OverrideKeys lists the keys accepted in ContextSelection.Overrides.
func OverrideKeys() []string {
	return configfile.OverrideKeys()
}

// ResolveSelection completes selection from the environment: the context
// name falls back to SHOPCTL_CTX_NAME and SHOPCTL_CTX_* overrides are
// merged beneath the explicit ones.
func ResolveSelection(opts BootstrapConfig, selection config.ContextSelection) (config.ContextSelection, error) {
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}

	resolved := config.ContextSelection{Name: strings.TrimSpace(selection.Name)}
	if resolved.Name == "" {
		resolved.Name = envValue(environ, configfile.ContextEnvNameVar)
	}

	envOverrides, err := configfile.OverridesFromEnv(environ)
	if err != nil {
		return config.ContextSelection{}, err
	}
	if len(envOverrides) == 0 && len(selection.Overrides) == 0 {
		return resolved, nil
	}

	resolved.Overrides = make(map[string]string, len(envOverrides)+len(selection.Overrides))
	for key, value := range envOverrides {
		resolved.Overrides[key] = value
	}
	for key, value := range selection.Overrides {
		resolved.Overrides[key] = value
	}
	return resolved, nil
}

// NewSession resolves the selected context and builds the Admin API
// gateway and GraphQL client for it.
func NewSession(ctx context.Context, opts BootstrapConfig, selection config.ContextSelection) (Session, error) {
	contextService := NewContextService(opts)

	resolvedSelection, err := ResolveSelection(opts, selection)
	if err != nil {
		return Session{}, err
	}
	resolvedContext, err := contextService.ResolveContext(ctx, resolvedSelection)
	if err != nil {
		return Session{}, err
	}

	gateway, err := buildGateway(opts, resolvedContext)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Contexts:  contextService,
		Context:   resolvedContext,
		Transport: gateway,
		GraphQL:   graphql.NewClient(gateway),
		BaseURL:   gateway.BaseURL(),
	}, nil
}

func buildGateway(opts BootstrapConfig, resolvedContext config.Context) (*httpgateway.AdminGateway, error) {
	if resolvedContext.Auth == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "context "+resolvedContext.Name+" has no auth configured", nil)
	}

	gatewayOptions := []httpgateway.GatewayOption{
		httpgateway.WithHTTPClient(opts.HTTPClient),
		httpgateway.WithRegisterer(opts.Registerer),
		httpgateway.WithTracerProvider(opts.TracerProvider),
	}
	if opts.UserAgent != "" {
		gatewayOptions = append(gatewayOptions, httpgateway.WithUserAgent(opts.UserAgent))
	}
	return httpgateway.NewAdminGateway(resolvedContext, gatewayOptions...)
}

func envValue(environ []string, name string) string {
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if ok && key == name {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
