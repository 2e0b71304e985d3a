package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
)

func TestResolveSecret(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	withStore := config.Context{
		Name: "acme",
		SecretStore: &config.SecretStore{
			Path:       filepath.Join(t.TempDir(), "secrets.enc"),
			Passphrase: "pw",
			KDF:        &config.KDF{Memory: 1024, Threads: 1},
		},
	}
	store, err := OpenSecretStore(withStore)
	if err != nil {
		t.Fatalf("OpenSecretStore returned error: %v", err)
	}
	if err := store.Set(ctx, "acme/app-secret", "hush"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	tests := []struct {
		name     string
		cfg      config.Context
		value    string
		want     string
		category faults.ErrorCategory
	}{
		{name: "plain value", cfg: config.Context{Name: "bare"}, value: "literal", want: "literal"},
		{name: "reference", cfg: withStore, value: SecretReference("acme/app-secret"), want: "hush"},
		{name: "reference without store", cfg: config.Context{Name: "bare"}, value: `{{secret "x"}}`, category: faults.ValidationError},
		{name: "missing key", cfg: withStore, value: `{{secret "acme/other"}}`, category: faults.NotFoundError},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveSecret(ctx, testCase.cfg, testCase.value)
			if testCase.category != "" {
				if !faults.IsCategory(err, testCase.category) {
					t.Fatalf("expected %s, got %v", testCase.category, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSecret returned error: %v", err)
			}
			if got != testCase.want {
				t.Fatalf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}
