package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultMediaType = "application/json"

func (g *AdminGateway) resolveRequestURL(requestPath string, query url.Values) (string, error) {
	trimmed := strings.TrimSpace(requestPath)
	if trimmed == "" {
		return "", validationError("request path is required", nil)
	}
	if parsed, err := url.Parse(trimmed); err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "", validationError("request path must be relative to the admin api root", err)
	}

	target := *g.baseURL
	target.Path = strings.TrimRight(g.baseURL.Path, "/") + "/" + strings.TrimLeft(trimmed, "/")

	values := target.Query()
	for key, items := range query {
		for _, item := range items {
			values.Add(key, item)
		}
	}
	target.RawQuery = values.Encode()

	return target.String(), nil
}

func encodeRequestBody(body any) ([]byte, error) {
	switch typed := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return typed, nil
	case json.RawMessage:
		return typed, nil
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, validationError("failed to encode JSON request body", err)
	}
	return encoded, nil
}

func (g *AdminGateway) newRequest(ctx context.Context, method string, target string, body []byte) (*http.Request, error) {
	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, internalError("failed to create admin api request", err)
	}

	request.Header.Set("Accept", defaultMediaType)
	if len(body) > 0 {
		request.Header.Set("Content-Type", defaultMediaType)
	}
	if g.userAgent != "" {
		request.Header.Set("User-Agent", g.userAgent)
	}
	if err := g.auth.apply(request); err != nil {
		return nil, err
	}

	return request, nil
}
