package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/resource"
)

const (
	endpointPath              = "graphql.json"
	defaultMaxThrottleRetries = 3
	fallbackThrottleDelay     = time.Second
)

// Client sends GraphQL Admin API documents over a resource.Transport, so
// authentication and HTTP retries are shared with the REST calls.
type Client struct {
	transport          resource.Transport
	maxThrottleRetries int
}

type ClientOption func(*Client)

// WithMaxThrottleRetries bounds how often a THROTTLED response is retried
// after waiting for the cost bucket to refill. Zero disables those retries.
func WithMaxThrottleRetries(retries int) ClientOption {
	return func(c *Client) {
		if retries >= 0 {
			c.maxThrottleRetries = retries
		}
	}
}

func NewClient(transport resource.Transport, opts ...ClientOption) *Client {
	client := &Client{transport: transport, maxThrottleRetries: defaultMaxThrottleRetries}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Query runs document with variables and decodes data into T. When the
// response carries errors, the decoded response is returned together with
// a typed error.
func Query[T any](ctx context.Context, client *Client, document string, variables map[string]any) (Response[T], error) {
	if client == nil || client.transport == nil {
		return Response[T]{}, faults.NewTypedError(faults.ValidationError, "graphql client is not configured", nil)
	}
	if strings.TrimSpace(document) == "" {
		return Response[T]{}, faults.NewTypedError(faults.ValidationError, "graphql query is empty", nil)
	}

	policy := &throttleBackOff{}
	operation := func() (Response[T], error) {
		response, err := client.send(ctx, document, variables)
		if err != nil {
			return Response[T]{}, backoff.Permanent(err)
		}

		var decoded Response[T]
		if err := json.Unmarshal(response.Body, &decoded); err != nil {
			return Response[T]{}, backoff.Permanent(faults.NewTypedError(faults.ValidationError, "graphql response is not valid JSON", err))
		}
		if decoded.Extensions.Cost != nil {
			cost := decoded.Extensions.Cost
			debugctx.Printf(
				ctx,
				"graphql cost requested=%.0f available=%.0f/%.0f restore=%.0f",
				cost.RequestedQueryCost,
				cost.ThrottleStatus.CurrentlyAvailable,
				cost.ThrottleStatus.MaximumAvailable,
				cost.ThrottleStatus.RestoreRate,
			)
		}

		if len(decoded.Errors) == 0 {
			return decoded, nil
		}
		errResult := errorsToFault(decoded.Errors)
		if !isThrottled(decoded.Errors) {
			return decoded, backoff.Permanent(errResult)
		}
		policy.set(throttleDelay(decoded.Extensions.Cost))
		return decoded, errResult
	}

	response, err := backoff.Retry(
		ctx,
		operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(client.maxThrottleRetries+1)),
		backoff.WithNotify(func(err error, delay time.Duration) {
			debugctx.Printf(ctx, "graphql throttled retry delay=%s error=%v", delay, err)
		}),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return response, err
}

// Raw runs document and keeps data as raw JSON.
func (c *Client) Raw(ctx context.Context, document string, variables map[string]any) (RawResponse, error) {
	return Query[json.RawMessage](ctx, c, document, variables)
}

func (c *Client) send(ctx context.Context, document string, variables map[string]any) (resource.Response, error) {
	return c.transport.Do(ctx, resource.Request{
		Method: http.MethodPost,
		Path:   endpointPath,
		Body: Request{
			Query:     document,
			Variables: variables,
		},
	})
}

func isThrottled(items []Error) bool {
	for _, item := range items {
		if item.Code() == throttledCode {
			return true
		}
	}
	return false
}

func throttleDelay(cost *Cost) time.Duration {
	if cost == nil {
		return fallbackThrottleDelay
	}
	if delay := cost.ThrottleStatus.WaitFor(cost.RequestedQueryCost); delay > 0 {
		return delay
	}
	return fallbackThrottleDelay
}

func errorsToFault(items []Error) error {
	messages := make([]error, 0, len(items))
	category := faults.ValidationError
	for _, item := range items {
		messages = append(messages, errors.New(item.Message))
		switch item.Code() {
		case throttledCode:
			category = faults.TransportError
		case "ACCESS_DENIED":
			category = faults.AuthError
		}
	}
	return faults.NewTypedError(category, "graphql request returned errors", errors.Join(messages...))
}

// throttleBackOff waits exactly as long as the last THROTTLED response
// asked for.
type throttleBackOff struct {
	mu    sync.Mutex
	delay time.Duration
}

func (b *throttleBackOff) set(delay time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = delay
}

func (b *throttleBackOff) NextBackOff() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.delay
}

func (b *throttleBackOff) Reset() {
	b.set(0)
}
