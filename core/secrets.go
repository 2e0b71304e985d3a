package core

import (
	"context"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/internal/providers/shared/secretstore"
)

// SecretStore holds the values that {{secret "key"}} references in a
// context resolve to.
type SecretStore interface {
	Set(ctx context.Context, key string, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}

// OpenSecretStore opens the encrypted store configured on cfg.
func OpenSecretStore(cfg config.Context) (SecretStore, error) {
	if cfg.SecretStore == nil {
		return nil, faults.Errorf(faults.ValidationError, "context %q has no secret-store configured", cfg.Name)
	}
	store, err := secretstore.New(*cfg.SecretStore)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ResolveSecret returns value, or the stored secret when value is a
// reference.
func ResolveSecret(ctx context.Context, cfg config.Context, value string) (string, error) {
	_, isReference, err := secretstore.ParseReference(value)
	if err != nil {
		return "", err
	}
	if !isReference {
		return value, nil
	}
	store, err := OpenSecretStore(cfg)
	if err != nil {
		return "", err
	}
	return secretstore.Resolve(ctx, store, value)
}

// SecretReference renders the placeholder that points at key.
func SecretReference(key string) string {
	return secretstore.Reference(key)
}
