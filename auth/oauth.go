// Package auth implements the Shopify app OAuth handshake and the
// verification of requests Shopify signs on behalf of a shop.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/crmarques/shopctl/config"
	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/faults"
)

const maxTokenResponseBytes = 1 << 20

// ValidShopDomain reports whether shop is a bare *.myshopify.com host.
func ValidShopDomain(shop string) bool {
	return config.ValidShopDomain(shop)
}

// NewState returns an unguessable value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthorizeURL returns the URL a merchant is sent to in order to grant
// the app's scopes on shop.
func AuthorizeURL(app config.App, shop string, state string) (string, error) {
	shop = config.NormalizeShopDomain(shop)
	if !ValidShopDomain(shop) {
		return "", validationError(fmt.Sprintf("invalid shop %q (expected like your-store.myshopify.com)", shop), nil)
	}
	if strings.TrimSpace(app.APIKey) == "" {
		return "", validationError("app api-key is required", nil)
	}
	if strings.TrimSpace(state) == "" {
		return "", validationError("oauth state is required", nil)
	}

	query := url.Values{}
	query.Set("client_id", app.APIKey)
	query.Set("scope", strings.Join(app.Scopes, ","))
	if app.RedirectURL != "" {
		query.Set("redirect_uri", app.RedirectURL)
	}
	query.Set("state", state)

	authorize := url.URL{
		Scheme:   "https",
		Host:     shop,
		Path:     "/admin/oauth/authorize",
		RawQuery: query.Encode(),
	}
	return authorize.String(), nil
}

// Token is the offline access token granted by the code exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// Scopes splits the comma separated scope list.
func (t Token) Scopes() []string {
	if strings.TrimSpace(t.Scope) == "" {
		return nil
	}
	parts := strings.Split(t.Scope, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			scopes = append(scopes, trimmed)
		}
	}
	return scopes
}

type Exchanger struct {
	httpClient *http.Client
	endpoint   func(shop string) string
}

type ExchangerOption func(*Exchanger)

func WithHTTPClient(client *http.Client) ExchangerOption {
	return func(e *Exchanger) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithTokenEndpoint replaces the https://{shop}/admin/oauth/access_token
// endpoint, e.g. to point at a local server.
func WithTokenEndpoint(endpoint func(shop string) string) ExchangerOption {
	return func(e *Exchanger) {
		if endpoint != nil {
			e.endpoint = endpoint
		}
	}
}

func NewExchanger(opts ...ExchangerOption) *Exchanger {
	exchanger := &Exchanger{
		httpClient: http.DefaultClient,
		endpoint: func(shop string) string {
			return "https://" + shop + "/admin/oauth/access_token"
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(exchanger)
		}
	}
	return exchanger
}

// ExchangeCode trades the authorization code from the callback for an
// access token.
func (e *Exchanger) ExchangeCode(ctx context.Context, app config.App, shop string, code string) (Token, error) {
	shop = config.NormalizeShopDomain(shop)
	if !ValidShopDomain(shop) {
		return Token{}, validationError(fmt.Sprintf("invalid shop %q", shop), nil)
	}
	if strings.TrimSpace(code) == "" {
		return Token{}, validationError("authorization code is required", nil)
	}
	if app.APIKey == "" || app.APISecret == "" {
		return Token{}, validationError("app api-key and api-secret are required", nil)
	}

	payload, err := json.Marshal(map[string]string{
		"client_id":     app.APIKey,
		"client_secret": app.APISecret,
		"code":          code,
	})
	if err != nil {
		return Token{}, faults.NewTypedError(faults.InternalError, "failed to encode token request", err)
	}

	endpoint := e.endpoint(shop)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return Token{}, validationError("invalid token endpoint", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	debugctx.Printf(ctx, "oauth token exchange shop=%q", shop)
	response, err := e.httpClient.Do(request)
	if err != nil {
		return Token{}, faults.NewTypedError(faults.TransportError, "token exchange failed", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxTokenResponseBytes))
	if err != nil {
		return Token{}, faults.NewTypedError(faults.TransportError, "failed to read token response", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		category := faults.TransportError
		if response.StatusCode == http.StatusBadRequest || response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
			category = faults.AuthError
		}
		return Token{}, faults.NewStatusError(
			category,
			response.StatusCode,
			fmt.Sprintf("token exchange failed with status %d: %s", response.StatusCode, strings.TrimSpace(string(raw))),
		)
	}

	var token Token
	if err := json.Unmarshal(raw, &token); err != nil || token.AccessToken == "" {
		return Token{}, faults.NewTypedError(faults.TransportError, "invalid token response", err)
	}
	return token, nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func authError(message string, cause error) error {
	return faults.NewTypedError(faults.AuthError, message, cause)
}
