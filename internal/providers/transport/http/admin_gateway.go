package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/crmarques/shopctl/config"
	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/internal/providers/shared/tlsconfig"
	"github.com/crmarques/shopctl/resource"
)

const maxResponseBytes = 32 << 20

var _ resource.Transport = (*AdminGateway)(nil)

// AdminGateway sends Admin API requests for one shop. It is safe for
// concurrent use.
type AdminGateway struct {
	baseURL     *url.URL
	shopDomain  string
	auth        authConfig
	client      *http.Client
	userAgent   string
	maxAttempts int
	initial     time.Duration
	maxInterval time.Duration
	limiter     *rate.Limiter
	metrics     *gatewayMetrics
	tracer      trace.Tracer

	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider

	callLimitMu sync.Mutex
	callLimit   CallLimit
	hasLimit    bool
}

type GatewayOption func(*AdminGateway)

func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *AdminGateway) {
		if client != nil {
			g.client = client
		}
	}
}

func WithRegisterer(registerer prometheus.Registerer) GatewayOption {
	return func(g *AdminGateway) {
		g.registerer = registerer
	}
}

func WithTracerProvider(provider trace.TracerProvider) GatewayOption {
	return func(g *AdminGateway) {
		g.tracerProvider = provider
	}
}

func WithUserAgent(userAgent string) GatewayOption {
	return func(g *AdminGateway) {
		g.userAgent = strings.TrimSpace(userAgent)
	}
}

func NewAdminGateway(cfg config.Context, opts ...GatewayOption) (*AdminGateway, error) {
	baseURL, err := adminBaseURL(cfg.Shop)
	if err != nil {
		return nil, err
	}

	auth, err := buildAuthConfig(cfg.Auth)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Shop.EffectiveTimeout()}
	tlsConfig, err := tlsconfig.ForShop(cfg.Shop)
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsConfig
		client.Transport = transport
	}

	gateway := &AdminGateway{
		baseURL:     baseURL,
		shopDomain:  cfg.Shop.Domain,
		auth:        auth,
		client:      client,
		userAgent:   "shopctl",
		maxAttempts: cfg.Retry.EffectiveMaxAttempts(),
		initial:     cfg.Retry.EffectiveInitialInterval(),
		maxInterval: cfg.Retry.EffectiveMaxInterval(),
	}
	if cfg.RateLimit != nil && cfg.RateLimit.RequestsPerSecond > 0 {
		burst := cfg.RateLimit.Burst
		if burst <= 0 {
			burst = 1
		}
		gateway.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), burst)
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(gateway)
	}
	gateway.metrics = newGatewayMetrics(gateway.registerer)
	gateway.tracer = newTracer(gateway.tracerProvider)

	return gateway, nil
}

// adminBaseURL returns https://{domain}/admin/api/{version}/ or the
// configured base-url override.
func adminBaseURL(shop config.Shop) (*url.URL, error) {
	raw := strings.TrimSpace(shop.BaseURL)
	if raw == "" {
		domain := config.NormalizeShopDomain(shop.Domain)
		if domain == "" {
			return nil, validationError("shop.domain is required", nil)
		}
		raw = fmt.Sprintf("https://%s/admin/api/%s/", domain, shop.EffectiveAPIVersion())
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, validationError("shop base url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, validationError("shop base url must use http or https", nil)
	}
	if parsed.Host == "" {
		return nil, validationError("shop base url host is required", nil)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	return parsed, nil
}

// BaseURL returns the versioned Admin API root requests are resolved against.
func (g *AdminGateway) BaseURL() string {
	return g.baseURL.String()
}

// LastCallLimit returns the call limit reported by the most recent response
// that carried one.
func (g *AdminGateway) LastCallLimit() (CallLimit, bool) {
	g.callLimitMu.Lock()
	defer g.callLimitMu.Unlock()
	return g.callLimit, g.hasLimit
}

// Do sends request, retrying throttled and failed attempts, and returns a
// typed error for every status of 400 or above.
func (g *AdminGateway) Do(ctx context.Context, request resource.Request) (resource.Response, error) {
	method := strings.ToUpper(strings.TrimSpace(request.Method))
	if method == "" {
		return resource.Response{}, validationError("request method is required", nil)
	}

	target, err := g.resolveRequestURL(request.Path, request.Query)
	if err != nil {
		return resource.Response{}, err
	}
	body, err := encodeRequestBody(request.Body)
	if err != nil {
		return resource.Response{}, err
	}

	requestID := uuid.NewString()
	ctx, span := g.startSpan(ctx, method, request.Path, requestID)
	started := time.Now()

	policy := &retryAfterBackOff{BackOff: newExponentialBackOff(g.initial, g.maxInterval)}
	attempts := 0
	lastStatus := 0

	response, err := backoff.Retry(ctx, func() (resource.Response, error) {
		attempts++
		if attempts > 1 {
			g.metrics.retries.WithLabelValues(method).Inc()
		}
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return resource.Response{}, backoff.Permanent(transportError("rate limiter wait aborted", err))
			}
		}

		response, retryAfter, err := g.attempt(ctx, method, target, body, requestID, attempts)
		lastStatus = response.StatusCode
		if err == nil {
			return response, nil
		}
		if !g.shouldRetry(ctx, method, response.StatusCode, err) {
			return response, backoff.Permanent(err)
		}
		policy.setRetryAfter(retryAfter)
		return response, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(g.maxAttempts)),
		backoff.WithNotify(func(err error, delay time.Duration) {
			debugctx.Printf(ctx, "http retry scheduled id=%s delay=%s error=%v", requestID, delay, err)
		}),
	)
	err = unwrapPermanent(err)

	if err != nil && faults.CategoryOf(err) == "" {
		err = transportError("admin api request aborted", err)
	}
	g.metrics.observe(method, lastStatus, time.Since(started))
	finishSpan(span, lastStatus, attempts, err)
	if err != nil {
		return resource.Response{}, err
	}
	return response, nil
}

func (g *AdminGateway) shouldRetry(ctx context.Context, method string, statusCode int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if statusCode == 0 {
		return faults.IsCategory(err, faults.TransportError) && idempotentMethod(method)
	}
	return retryableStatus(statusCode)
}

// attempt performs one round trip. The returned response carries the status
// and headers even when err is set.
func (g *AdminGateway) attempt(
	ctx context.Context,
	method string,
	target string,
	body []byte,
	requestID string,
	attempt int,
) (resource.Response, time.Duration, error) {
	httpRequest, err := g.newRequest(ctx, method, target, body)
	if err != nil {
		return resource.Response{}, 0, err
	}

	httpResponse, err := g.doRequest(ctx, requestID, attempt, httpRequest)
	if err != nil {
		return resource.Response{}, 0, transportError("admin api request failed", err)
	}
	defer httpResponse.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseBytes))
	if err != nil {
		return resource.Response{}, 0, transportError("failed to read admin api response body", err)
	}

	g.recordCallLimit(httpResponse.Header)
	response := resource.Response{
		StatusCode: httpResponse.StatusCode,
		Header:     httpResponse.Header.Clone(),
		Body:       responseBody,
	}
	if httpResponse.StatusCode >= http.StatusBadRequest {
		retryAfter := parseRetryAfter(httpResponse.Header.Get("Retry-After"), time.Now())
		return response, retryAfter, classifyStatusError(httpResponse.StatusCode, responseBody)
	}
	return response, 0, nil
}

func (g *AdminGateway) recordCallLimit(header http.Header) {
	limit, ok := ParseCallLimit(header.Get(callLimitHeader))
	if !ok {
		return
	}

	g.callLimitMu.Lock()
	g.callLimit = limit
	g.hasLimit = true
	g.callLimitMu.Unlock()

	g.metrics.callLimit.WithLabelValues(g.shopDomain).Set(limit.Utilization())
}
