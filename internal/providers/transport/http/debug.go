package http

import (
	"context"
	"net/http"
	"net/url"

	debugctx "github.com/crmarques/shopctl/debugctx"
)

func (g *AdminGateway) doRequest(ctx context.Context, requestID string, attempt int, request *http.Request) (*http.Response, error) {
	debugctx.Printf(
		ctx,
		"http request id=%s attempt=%d method=%q url=%q",
		requestID,
		attempt,
		request.Method,
		redactURLForDebug(request.URL),
	)

	response, err := g.client.Do(request)
	if err != nil {
		debugctx.Printf(
			ctx,
			"http request failed id=%s attempt=%d method=%q url=%q error=%v",
			requestID,
			attempt,
			request.Method,
			redactURLForDebug(request.URL),
			err,
		)
		return nil, err
	}

	debugctx.Printf(
		ctx,
		"http response id=%s attempt=%d method=%q url=%q status=%d call_limit=%q shopify_request_id=%q",
		requestID,
		attempt,
		request.Method,
		redactURLForDebug(request.URL),
		response.StatusCode,
		response.Header.Get(callLimitHeader),
		response.Header.Get("X-Request-Id"),
	)
	if reason := response.Header.Get("X-Shopify-API-Deprecated-Reason"); reason != "" {
		debugctx.Printf(ctx, "http deprecated endpoint id=%s reason=%q", requestID, reason)
	}
	return response, nil
}

func redactURLForDebug(value *url.URL) string {
	if value == nil {
		return ""
	}

	cloned := *value
	cloned.User = nil

	query := cloned.Query()
	if len(query) > 0 {
		for key, values := range query {
			redacted := make([]string, len(values))
			for idx := range values {
				redacted[idx] = "<redacted>"
			}
			query[key] = redacted
		}
		cloned.RawQuery = query.Encode()
	}

	return cloned.String()
}
