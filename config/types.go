package config

import (
	"strings"
	"time"
)

// ContextSelection picks a context by name (empty means the current one)
// and applies dotted-path overrides such as "shop.domain" on top of it.
type ContextSelection struct {
	Name      string
	Overrides map[string]string
}

const (
	ContextFileEnvVar         = "SHOPCTL_CONTEXTS_FILE"
	DefaultContextCatalogPath = "~/.shopctl/contexts.yaml"
	DefaultAPIVersion         = "2024-07"
	DefaultMaxAttempts        = 3
	DefaultInitialInterval    = 500 * time.Millisecond
	DefaultMaxInterval        = 10 * time.Second
	DefaultRequestTimeout     = 30 * time.Second
	MyshopifyDomainSuffix     = ".myshopify.com"
)

type ContextCatalog struct {
	Contexts   []Context `yaml:"contexts"`
	CurrentCtx string    `yaml:"current-ctx"`
}

// Context is one shop connection: where the shop lives, how to
// authenticate, and how aggressively to call it.
type Context struct {
	Name        string            `yaml:"name"`
	Shop        Shop              `yaml:"shop"`
	Auth        *Auth             `yaml:"auth,omitempty"`
	Retry       *Retry            `yaml:"retry,omitempty"`
	RateLimit   *RateLimit        `yaml:"rate-limit,omitempty"`
	App         *App              `yaml:"app,omitempty"`
	SecretStore *SecretStore      `yaml:"secret-store,omitempty"`
	Preferences map[string]string `yaml:"preferences,omitempty"`
}

type Shop struct {
	Domain     string `yaml:"domain"`
	APIVersion string `yaml:"api-version,omitempty"`
	// BaseURL replaces https://{domain}/admin/api/{version}/ when set.
	BaseURL string `yaml:"base-url,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
	TLS     *TLS   `yaml:"tls,omitempty"`
}

// TLS adjusts certificate verification, typically for a proxy or a local
// mock reached through base-url.
type TLS struct {
	CACertFile         string `yaml:"ca-cert-file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify,omitempty"`
}

// EffectiveAPIVersion returns the configured version or the default one.
func (s Shop) EffectiveAPIVersion() string {
	if version := strings.TrimSpace(s.APIVersion); version != "" {
		return version
	}
	return DefaultAPIVersion
}

func (s Shop) EffectiveTimeout() time.Duration {
	return parseDurationOr(s.Timeout, DefaultRequestTimeout)
}

type Auth struct {
	AccessToken *AccessTokenAuth `yaml:"access-token,omitempty"`
	PrivateApp  *PrivateAppAuth  `yaml:"private-app,omitempty"`
}

type AccessTokenAuth struct {
	Token string `yaml:"token"`
}

type PrivateAppAuth struct {
	APIKey   string `yaml:"api-key"`
	Password string `yaml:"password"`
}

type Retry struct {
	MaxAttempts     int    `yaml:"max-attempts,omitempty"`
	InitialInterval string `yaml:"initial-interval,omitempty"`
	MaxInterval     string `yaml:"max-interval,omitempty"`
}

func (r *Retry) EffectiveMaxAttempts() int {
	if r == nil || r.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return r.MaxAttempts
}

func (r *Retry) EffectiveInitialInterval() time.Duration {
	if r == nil {
		return DefaultInitialInterval
	}
	return parseDurationOr(r.InitialInterval, DefaultInitialInterval)
}

func (r *Retry) EffectiveMaxInterval() time.Duration {
	if r == nil {
		return DefaultMaxInterval
	}
	return parseDurationOr(r.MaxInterval, DefaultMaxInterval)
}

// RateLimit paces requests on the client side. A zero rate disables pacing.
type RateLimit struct {
	RequestsPerSecond float64 `yaml:"requests-per-second,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
}

// App holds the credentials of a public or custom app, used by the OAuth
// commands.
type App struct {
	APIKey      string   `yaml:"api-key"`
	APISecret   string   `yaml:"api-secret"`
	Scopes      []string `yaml:"scopes,omitempty"`
	RedirectURL string   `yaml:"redirect-url,omitempty"`
}

// SecretStore points at an encrypted file holding the values that
// {{secret "key"}} placeholders in auth.access-token.token,
// auth.private-app.password and app.api-secret refer to. Exactly one of
// Key, KeyFile, Passphrase and PassphraseFile supplies the key material.
type SecretStore struct {
	Path           string `yaml:"path"`
	Key            string `yaml:"key,omitempty"`
	KeyFile        string `yaml:"key-file,omitempty"`
	Passphrase     string `yaml:"passphrase,omitempty"`
	PassphraseFile string `yaml:"passphrase-file,omitempty"`
	KDF            *KDF   `yaml:"kdf,omitempty"`
}

// KDF tunes the argon2id derivation used with a passphrase. Zero fields
// keep the defaults.
type KDF struct {
	Time    int `yaml:"time,omitempty"`
	Memory  int `yaml:"memory,omitempty"`
	Threads int `yaml:"threads,omitempty"`
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(trimmed)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
