package file

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/internal/providers/shared/secretstore"
)

var testKDF = &config.KDF{Memory: 1024, Threads: 1}

func seedSecretStore(t *testing.T, kdf *config.KDF, values map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secrets.enc")
	store, err := secretstore.New(config.SecretStore{Path: path, Passphrase: "pw", KDF: kdf})
	if err != nil {
		t.Fatalf("secretstore.New returned error: %v", err)
	}
	for key, value := range values {
		if err := store.Set(context.Background(), key, value); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
	}
	return path
}

func secretCatalog(storePath string, token string) string {
	return fmt.Sprintf(`
contexts:
  - name: dev
    shop:
      domain: dev-store.myshopify.com
    auth:
      access-token:
        token: '%s'
    app:
      api-key: app-key
      api-secret: '{{secret "dev/app-secret"}}'
    secret-store:
      path: %s
      passphrase: pw
      kdf:
        memory: 1024
        threads: 1
current-ctx: dev
`, token, storePath)
}

func TestResolveContextReadsSecretReferences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storePath := seedSecretStore(t, testKDF, map[string]string{
		"dev/token":      "shpat_from_store",
		"dev/app-secret": "app-secret-value",
	})
	service := NewFileContextService(writeCatalog(t, secretCatalog(storePath, `{{secret "dev/token"}}`)))

	resolved, err := service.ResolveContext(ctx, config.ContextSelection{})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if resolved.Auth.AccessToken.Token != "shpat_from_store" {
		t.Fatalf("expected token from store, got %q", resolved.Auth.AccessToken.Token)
	}
	if resolved.App.APISecret != "app-secret-value" {
		t.Fatalf("expected app secret from store, got %q", resolved.App.APISecret)
	}

	stored, err := service.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("GetCurrent returned error: %v", err)
	}
	if stored.Auth.AccessToken.Token != `{{secret "dev/token"}}` {
		t.Fatalf("expected catalog to keep the reference, got %q", stored.Auth.AccessToken.Token)
	}
}

func TestResolveContextSecretReferenceFromOverride(t *testing.T) {
	t.Parallel()

	// Overrides carry no kdf settings, so the store uses the defaults.
	storePath := seedSecretStore(t, nil, map[string]string{"ci/password": "pa55"})
	service := NewFileContextService(filepath.Join(t.TempDir(), "missing.yaml"))

	resolved, err := service.ResolveContext(context.Background(), config.ContextSelection{Overrides: map[string]string{
		"shop.domain":               "ci.myshopify.com",
		"auth.private-app.api-key":  "key",
		"auth.private-app.password": "{{secret ci/password}}",
		"secret-store.path":         storePath,
		"secret-store.passphrase":   "pw",
	}})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if resolved.Auth.PrivateApp.Password != "pa55" {
		t.Fatalf("expected password from store, got %q", resolved.Auth.PrivateApp.Password)
	}
}

func TestResolveContextSecretReferenceErrors(t *testing.T) {
	t.Parallel()

	storePath := seedSecretStore(t, testKDF, map[string]string{"dev/app-secret": "x"})

	tests := []struct {
		name     string
		catalog  string
		category faults.ErrorCategory
	}{
		{
			name:     "missing secret",
			catalog:  secretCatalog(storePath, `{{secret "dev/absent"}}`),
			category: faults.NotFoundError,
		},
		{
			name: "no secret store",
			catalog: `
contexts:
  - name: dev
    shop:
      domain: dev-store.myshopify.com
    auth:
      access-token:
        token: '{{secret "dev/token"}}'
current-ctx: dev
`,
			category: faults.ValidationError,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			service := NewFileContextService(writeCatalog(t, testCase.catalog))
			_, err := service.ResolveContext(context.Background(), config.ContextSelection{})
			if !faults.IsCategory(err, testCase.category) {
				t.Fatalf("expected %s, got %v", testCase.category, err)
			}
		})
	}
}
