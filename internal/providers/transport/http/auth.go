package http

import (
	"net/http"
	"strings"

	"github.com/crmarques/shopctl/config"
)

const accessTokenHeader = "X-Shopify-Access-Token"

type authMode int

const (
	authModeUnknown authMode = iota
	authModeAccessToken
	authModePrivateApp
)

type authConfig struct {
	mode       authMode
	token      string
	privateApp config.PrivateAppAuth
}

func buildAuthConfig(cfg *config.Auth) (authConfig, error) {
	if cfg == nil {
		return authConfig{}, validationError("auth is required", nil)
	}
	if (cfg.AccessToken == nil) == (cfg.PrivateApp == nil) {
		return authConfig{}, validationError("auth must define exactly one of access-token, private-app", nil)
	}

	switch {
	case cfg.AccessToken != nil:
		token := strings.TrimSpace(cfg.AccessToken.Token)
		if token == "" {
			return authConfig{}, validationError("auth.access-token.token is required", nil)
		}
		return authConfig{mode: authModeAccessToken, token: token}, nil
	default:
		privateApp := *cfg.PrivateApp
		if privateApp.APIKey == "" || privateApp.Password == "" {
			return authConfig{}, validationError("auth.private-app requires api-key and password", nil)
		}
		return authConfig{mode: authModePrivateApp, privateApp: privateApp}, nil
	}
}

func (a authConfig) apply(request *http.Request) error {
	switch a.mode {
	case authModeAccessToken:
		request.Header.Set(accessTokenHeader, a.token)
	case authModePrivateApp:
		request.SetBasicAuth(a.privateApp.APIKey, a.privateApp.Password)
	default:
		return validationError("auth mode is not configured", nil)
	}
	return nil
}
