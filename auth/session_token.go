package auth

import (
	"net/url"

	"github.com/golang-jwt/jwt"

	"github.com/crmarques/shopctl/config"
)

// SessionClaims are the claims of an embedded app session token.
type SessionClaims struct {
	jwt.StandardClaims
	Dest string `json:"dest"`
	Sid  string `json:"sid,omitempty"`
}

// Shop returns the shop domain the token was issued for.
func (c *SessionClaims) Shop() string {
	parsed, err := url.Parse(c.Dest)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// ParseSessionToken verifies an App Bridge session token signed with the
// app secret and returns its claims.
func ParseSessionToken(raw string, app config.App) (*SessionClaims, error) {
	if raw == "" {
		return nil, authError("session token is empty", nil)
	}
	if app.APIKey == "" || app.APISecret == "" {
		return nil, validationError("app api-key and api-secret are required", nil)
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, authError("unexpected session token algorithm "+token.Method.Alg(), nil)
		}
		return []byte(app.APISecret), nil
	})
	if err != nil {
		return nil, authError("invalid session token", err)
	}
	if !token.Valid {
		return nil, authError("invalid session token", nil)
	}
	if !claims.VerifyAudience(app.APIKey, true) {
		return nil, authError("session token audience does not match the app", nil)
	}
	if !ValidShopDomain(claims.Shop()) {
		return nil, authError("session token dest is not a shop", nil)
	}
	return claims, nil
}
