package secretstore

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
)

// Small argon2 parameters keep the tests fast.
var testKDF = &config.KDF{Time: 1, Memory: 1024, Threads: 1}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "secrets.enc")
	store, err := New(config.SecretStore{Path: path, Passphrase: "change-me", KDF: testKDF})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := store.Set(ctx, "/dev/token/", "shpat_top_secret"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, "app-secret", "s3cr3t"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	reopened, err := New(config.SecretStore{Path: path, Passphrase: "change-me", KDF: testKDF})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	value, err := reopened.Get(ctx, "dev/token")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if value != "shpat_top_secret" {
		t.Fatalf("expected stored token, got %q", value)
	}

	keys, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"app-secret", "dev/token"}, keys); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}

	encoded, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read store file: %v", err)
	}
	if strings.Contains(string(encoded), "shpat_top_secret") {
		t.Fatal("store file contains a plaintext secret")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat store file: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", mode)
	}

	if err := reopened.Delete(ctx, "dev/token"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	_, err = reopened.Get(ctx, "dev/token")
	if !faults.IsCategory(err, faults.NotFoundError) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestFileStoreRejectsWrongPassphrase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "secrets.enc")
	store, err := New(config.SecretStore{Path: path, Passphrase: "right", KDF: testKDF})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := store.Set(ctx, "token", "value"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	wrong, err := New(config.SecretStore{Path: path, Passphrase: "wrong", KDF: testKDF})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = wrong.Get(ctx, "token")
	if !faults.IsCategory(err, faults.AuthError) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestFileStoreWithRawKeyFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "store.key")
	if err := os.WriteFile(keyFile, []byte(hex.EncodeToString(make([]byte, 32))+"\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	store, err := New(config.SecretStore{Path: filepath.Join(dir, "secrets.enc"), KeyFile: keyFile})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := store.Set(ctx, "token", "value"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, err := store.Get(ctx, "token")
	if err != nil || value != "value" {
		t.Fatalf("expected stored value, got %q err=%v", value, err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.SecretStore
	}{
		{name: "missing path", cfg: config.SecretStore{Passphrase: "x"}},
		{name: "no key material", cfg: config.SecretStore{Path: "/tmp/s.enc"}},
		{name: "two key materials", cfg: config.SecretStore{Path: "/tmp/s.enc", Passphrase: "x", Key: strings.Repeat("k", 32)}},
		{name: "short key", cfg: config.SecretStore{Path: "/tmp/s.enc", Key: "short"}},
		{name: "negative kdf", cfg: config.SecretStore{Path: "/tmp/s.enc", Passphrase: "x", KDF: &config.KDF{Time: -1}}},
		{name: "missing passphrase file", cfg: config.SecretStore{Path: "/tmp/s.enc", PassphraseFile: "/nonexistent/passphrase"}},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(testCase.cfg)
			if !faults.IsCategory(err, faults.ValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestParseReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		value         string
		wantKey       string
		wantReference bool
		wantErr       bool
	}{
		{name: "plain value", value: "shpat_abc"},
		{name: "other template", value: "{{ env HOME }}"},
		{name: "prefix only", value: "{{secrets x}}"},
		{name: "bare key", value: "{{secret dev/token}}", wantKey: "dev/token", wantReference: true},
		{name: "quoted key", value: ` {{ secret "shop token" }} `, wantKey: "shop token", wantReference: true},
		{name: "missing key", value: "{{secret}}", wantReference: true, wantErr: true},
		{name: "unquoted spaces", value: "{{secret a b}}", wantReference: true, wantErr: true},
		{name: "parent segment", value: `{{secret "../x"}}`, wantReference: true, wantErr: true},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			key, isReference, err := ParseReference(testCase.value)
			if (err != nil) != testCase.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if isReference != testCase.wantReference || key != testCase.wantKey {
				t.Fatalf("expected key=%q reference=%v, got key=%q reference=%v", testCase.wantKey, testCase.wantReference, key, isReference)
			}
		})
	}

	key, isReference, err := ParseReference(Reference("dev/token"))
	if err != nil || !isReference || key != "dev/token" {
		t.Fatalf("rendered reference did not parse back: key=%q reference=%v err=%v", key, isReference, err)
	}
}
