package file

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crmarques/shopctl/config"
)

func validateCatalog(contextCatalog config.ContextCatalog) error {
	if len(contextCatalog.Contexts) == 0 {
		if contextCatalog.CurrentCtx != "" {
			return validationError("current-ctx must be empty when contexts list is empty", nil)
		}
		return nil
	}

	seen := map[string]struct{}{}
	for _, item := range contextCatalog.Contexts {
		if item.Name == "" {
			return validationError("context name must not be empty", nil)
		}
		if _, exists := seen[item.Name]; exists {
			return validationError(fmt.Sprintf("duplicate context name %q", item.Name), nil)
		}
		seen[item.Name] = struct{}{}

		if err := validateConfig(item); err != nil {
			return err
		}
	}

	if contextCatalog.CurrentCtx == "" {
		return validationError("current-ctx must be set when contexts are defined", nil)
	}
	if _, exists := seen[contextCatalog.CurrentCtx]; !exists {
		return validationError(fmt.Sprintf("current-ctx %q does not match any context", contextCatalog.CurrentCtx), nil)
	}

	return nil
}

func validateConfig(cfg config.Context) error {
	cfg = normalizeConfig(cfg)

	if cfg.Name == "" {
		return validationError("context name must not be empty", nil)
	}
	if err := validateShop(cfg.Name, cfg.Shop); err != nil {
		return err
	}
	if err := validateAuth(cfg.Name, cfg.Auth); err != nil {
		return err
	}
	if err := validateRetry(cfg.Name, cfg.Retry); err != nil {
		return err
	}
	if cfg.RateLimit != nil {
		if cfg.RateLimit.RequestsPerSecond < 0 || cfg.RateLimit.Burst < 0 {
			return validationError(fmt.Sprintf("context %q: rate-limit values must not be negative", cfg.Name), nil)
		}
	}
	if cfg.App != nil && (cfg.App.APIKey == "" || cfg.App.APISecret == "") {
		return validationError(fmt.Sprintf("context %q: app requires api-key and api-secret", cfg.Name), nil)
	}

	return validateSecretReferences(cfg)
}

func validateShop(name string, shop config.Shop) error {
	if shop.Domain == "" {
		return validationError(fmt.Sprintf("context %q: shop.domain is required", name), nil)
	}
	if shop.BaseURL == "" && !config.ValidShopDomain(shop.Domain) {
		return validationError(fmt.Sprintf("context %q: shop.domain %q is not a myshopify.com domain", name, shop.Domain), nil)
	}
	if shop.BaseURL != "" {
		parsed, err := url.Parse(shop.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return validationError(fmt.Sprintf("context %q: shop.base-url must be an absolute URL", name), err)
		}
	}
	if shop.APIVersion != "" && !config.ValidAPIVersion(shop.APIVersion) {
		return validationError(fmt.Sprintf("context %q: shop.api-version %q is not a release name like 2024-07", name, shop.APIVersion), nil)
	}
	if shop.Timeout != "" {
		if _, err := time.ParseDuration(shop.Timeout); err != nil {
			return validationError(fmt.Sprintf("context %q: shop.timeout is not a duration", name), err)
		}
	}
	if shop.TLS != nil && shop.TLS.InsecureSkipVerify && shop.TLS.CACertFile != "" {
		return validationError(fmt.Sprintf("context %q: shop.tls sets both ca-cert-file and insecure-skip-verify", name), nil)
	}
	return nil
}

// validateAuth accepts a missing auth block: stored contexts may leave the
// credentials to SHOPCTL_CTX_AUTH_* variables. Resolved contexts must carry
// one, see validateResolved.
func validateAuth(name string, auth *config.Auth) error {
	if auth == nil {
		return nil
	}
	if countSet(auth.AccessToken != nil, auth.PrivateApp != nil) != 1 {
		return validationError(fmt.Sprintf("context %q: auth must define exactly one of access-token, private-app", name), nil)
	}
	if auth.AccessToken != nil && auth.AccessToken.Token == "" {
		return validationError(fmt.Sprintf("context %q: auth.access-token.token is required", name), nil)
	}
	if auth.PrivateApp != nil && (auth.PrivateApp.APIKey == "" || auth.PrivateApp.Password == "") {
		return validationError(fmt.Sprintf("context %q: auth.private-app requires api-key and password", name), nil)
	}
	return nil
}

func validateResolved(cfg config.Context) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if cfg.Auth == nil {
		return validationError(fmt.Sprintf("context %q: auth is required", cfg.Name), nil)
	}
	return nil
}

func validateRetry(name string, retry *config.Retry) error {
	if retry == nil {
		return nil
	}
	if retry.MaxAttempts < 0 {
		return validationError(fmt.Sprintf("context %q: retry.max-attempts must not be negative", name), nil)
	}
	for field, value := range map[string]string{"initial-interval": retry.InitialInterval, "max-interval": retry.MaxInterval} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return validationError(fmt.Sprintf("context %q: retry.%s is not a duration", name, field), err)
		}
	}
	return nil
}

func normalizeConfig(cfg config.Context) config.Context {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Shop.Domain = config.NormalizeShopDomain(cfg.Shop.Domain)
	cfg.Shop.APIVersion = strings.TrimSpace(cfg.Shop.APIVersion)
	cfg.Shop.BaseURL = strings.TrimSpace(cfg.Shop.BaseURL)
	if cfg.SecretStore != nil {
		store := *cfg.SecretStore
		store.Path = strings.TrimSpace(store.Path)
		cfg.SecretStore = &store
	}
	return cfg
}

func applyConfigDefaults(cfg config.Context) config.Context {
	cfg = normalizeConfig(cfg)
	if cfg.Shop.APIVersion == "" {
		cfg.Shop.APIVersion = config.DefaultAPIVersion
	}
	return cfg
}

// compactConfigForPersistence drops values equal to their defaults so the
// catalog stays small.
func compactConfigForPersistence(cfg config.Context) config.Context {
	cfg = normalizeConfig(cfg)
	if cfg.Shop.APIVersion == config.DefaultAPIVersion {
		cfg.Shop.APIVersion = ""
	}
	if cfg.Retry != nil && *cfg.Retry == (config.Retry{}) {
		cfg.Retry = nil
	}
	if cfg.RateLimit != nil && *cfg.RateLimit == (config.RateLimit{}) {
		cfg.RateLimit = nil
	}
	if cfg.Shop.TLS != nil && *cfg.Shop.TLS == (config.TLS{}) {
		cfg.Shop.TLS = nil
	}
	if cfg.SecretStore != nil && *cfg.SecretStore == (config.SecretStore{}) {
		cfg.SecretStore = nil
	}
	return cfg
}

func applyOverrides(cfg config.Context, overrides map[string]string) (config.Context, error) {
	for _, key := range sortedOverrideKeys(overrides) {
		value := strings.TrimSpace(overrides[key])
		switch key {
		case "shop.domain":
			cfg.Shop.Domain = value
		case "shop.api-version":
			cfg.Shop.APIVersion = value
		case "shop.base-url":
			cfg.Shop.BaseURL = value
		case "shop.timeout":
			cfg.Shop.Timeout = value
		case "shop.tls.ca-cert-file":
			if cfg.Shop.TLS == nil {
				cfg.Shop.TLS = &config.TLS{}
			}
			cfg.Shop.TLS.CACertFile = value
		case "shop.tls.insecure-skip-verify":
			insecure, err := strconv.ParseBool(value)
			if err != nil {
				return config.Context{}, validationError("override shop.tls.insecure-skip-verify must be a boolean", err)
			}
			if cfg.Shop.TLS == nil {
				cfg.Shop.TLS = &config.TLS{}
			}
			cfg.Shop.TLS.InsecureSkipVerify = insecure
		case "auth.access-token.token":
			cfg.Auth = &config.Auth{AccessToken: &config.AccessTokenAuth{Token: value}}
		case "auth.private-app.api-key":
			cfg.Auth = privateAppAuth(cfg.Auth)
			cfg.Auth.PrivateApp.APIKey = value
		case "auth.private-app.password":
			cfg.Auth = privateAppAuth(cfg.Auth)
			cfg.Auth.PrivateApp.Password = value
		case "retry.max-attempts":
			attempts, err := strconv.Atoi(value)
			if err != nil {
				return config.Context{}, validationError("override retry.max-attempts must be an integer", err)
			}
			if cfg.Retry == nil {
				cfg.Retry = &config.Retry{}
			}
			cfg.Retry.MaxAttempts = attempts
		case "rate-limit.requests-per-second":
			perSecond, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return config.Context{}, validationError("override rate-limit.requests-per-second must be a number", err)
			}
			if cfg.RateLimit == nil {
				cfg.RateLimit = &config.RateLimit{}
			}
			cfg.RateLimit.RequestsPerSecond = perSecond
		case "rate-limit.burst":
			burst, err := strconv.Atoi(value)
			if err != nil {
				return config.Context{}, validationError("override rate-limit.burst must be an integer", err)
			}
			if cfg.RateLimit == nil {
				cfg.RateLimit = &config.RateLimit{}
			}
			cfg.RateLimit.Burst = burst
		case "app.api-key":
			if cfg.App == nil {
				cfg.App = &config.App{}
			}
			cfg.App.APIKey = value
		case "app.api-secret":
			if cfg.App == nil {
				cfg.App = &config.App{}
			}
			cfg.App.APISecret = value
		case "secret-store.path":
			cfg.SecretStore = secretStore(cfg.SecretStore)
			cfg.SecretStore.Path = value
		case "secret-store.passphrase":
			cfg.SecretStore = secretStore(cfg.SecretStore)
			cfg.SecretStore.Key = ""
			cfg.SecretStore.KeyFile = ""
			cfg.SecretStore.PassphraseFile = ""
			cfg.SecretStore.Passphrase = value
		default:
			return config.Context{}, unknownOverrideError(key)
		}
	}

	return cfg, nil
}

// privateAppAuth switches auth to private-app credentials, keeping any
// private-app values already set.
func privateAppAuth(auth *config.Auth) *config.Auth {
	if auth != nil && auth.PrivateApp != nil {
		return &config.Auth{PrivateApp: auth.PrivateApp}
	}
	return &config.Auth{PrivateApp: &config.PrivateAppAuth{}}
}

// secretStore copies store so overrides never touch the catalog entry.
func secretStore(store *config.SecretStore) *config.SecretStore {
	if store == nil {
		return &config.SecretStore{}
	}
	copied := *store
	return &copied
}

// OverrideKeys lists every key accepted by ContextSelection.Overrides.
func OverrideKeys() []string {
	keys := make([]string, 0, len(overrideKeys))
	keys = append(keys, overrideKeys...)
	return keys
}

var overrideKeys = []string{
	"app.api-key",
	"app.api-secret",
	"auth.access-token.token",
	"auth.private-app.api-key",
	"auth.private-app.password",
	"rate-limit.burst",
	"rate-limit.requests-per-second",
	"retry.max-attempts",
	"secret-store.passphrase",
	"secret-store.path",
	"shop.api-version",
	"shop.base-url",
	"shop.domain",
	"shop.timeout",
	"shop.tls.ca-cert-file",
	"shop.tls.insecure-skip-verify",
}

func sortedOverrideKeys(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func countSet(values ...bool) int {
	count := 0
	for _, value := range values {
		if value {
			count++
		}
	}
	return count
}
