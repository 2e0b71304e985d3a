package file

import (
	"context"
	"fmt"
	"strings"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/internal/providers/shared/secretstore"
)

// secretField is a credential that may hold a {{secret "key"}} reference.
type secretField struct {
	name  string
	value *string
}

// secretFields points into cfg, so cfg must own its Auth and App values.
func secretFields(cfg *config.Context) []secretField {
	var fields []secretField
	if cfg.Auth != nil && cfg.Auth.AccessToken != nil {
		fields = append(fields, secretField{name: "auth.access-token.token", value: &cfg.Auth.AccessToken.Token})
	}
	if cfg.Auth != nil && cfg.Auth.PrivateApp != nil {
		fields = append(fields, secretField{name: "auth.private-app.password", value: &cfg.Auth.PrivateApp.Password})
	}
	if cfg.App != nil {
		fields = append(fields, secretField{name: "app.api-secret", value: &cfg.App.APISecret})
	}
	return fields
}

func validateSecretReferences(cfg config.Context) error {
	cfg = detachCredentials(cfg)
	for _, field := range secretFields(&cfg) {
		if _, _, err := secretstore.ParseReference(*field.value); err != nil {
			return validationError(fmt.Sprintf("context %q: %s holds an invalid secret reference", cfg.Name, field.name), err)
		}
	}
	return validateSecretStore(cfg.Name, cfg.SecretStore)
}

func validateSecretStore(name string, store *config.SecretStore) error {
	if store == nil {
		return nil
	}
	if strings.TrimSpace(store.Path) == "" {
		return validationError(fmt.Sprintf("context %q: secret-store.path is required", name), nil)
	}
	material := countSet(
		strings.TrimSpace(store.Key) != "",
		strings.TrimSpace(store.KeyFile) != "",
		strings.TrimSpace(store.Passphrase) != "",
		strings.TrimSpace(store.PassphraseFile) != "",
	)
	if material != 1 {
		return validationError(fmt.Sprintf("context %q: secret-store must define exactly one of key, key-file, passphrase, passphrase-file", name), nil)
	}
	return nil
}

// resolveSecretReferences swaps secret references for the values kept in
// the context's secret store. The store is opened only when a reference is
// present.
func resolveSecretReferences(ctx context.Context, cfg config.Context) (config.Context, error) {
	cfg = detachCredentials(cfg)

	var store *secretstore.FileStore
	for _, field := range secretFields(&cfg) {
		key, isReference, err := secretstore.ParseReference(*field.value)
		if err != nil {
			return config.Context{}, validationError(fmt.Sprintf("context %q: %s holds an invalid secret reference", cfg.Name, field.name), err)
		}
		if !isReference {
			continue
		}

		if store == nil {
			if cfg.SecretStore == nil {
				return config.Context{}, validationError(fmt.Sprintf("context %q: %s references secret %q but no secret-store is configured", cfg.Name, field.name, key), nil)
			}
			store, err = secretstore.New(*cfg.SecretStore)
			if err != nil {
				return config.Context{}, err
			}
		}

		value, err := store.Get(ctx, key)
		if err != nil {
			return config.Context{}, faults.NewTypedError(faults.CategoryOf(err), fmt.Sprintf("context %q: resolve %s", cfg.Name, field.name), err)
		}
		*field.value = value
	}
	return cfg, nil
}

// detachCredentials copies the credential blocks so resolved values never
// leak back into a catalog entry.
func detachCredentials(cfg config.Context) config.Context {
	if cfg.Auth != nil {
		auth := *cfg.Auth
		if auth.AccessToken != nil {
			token := *auth.AccessToken
			auth.AccessToken = &token
		}
		if auth.PrivateApp != nil {
			privateApp := *auth.PrivateApp
			auth.PrivateApp = &privateApp
		}
		cfg.Auth = &auth
	}
	if cfg.App != nil {
		app := *cfg.App
		cfg.App = &app
	}
	return cfg
}
