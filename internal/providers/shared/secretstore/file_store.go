package secretstore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
)

const (
	envelopeVersion  = 1
	keyLengthBytes   = 32
	nonceLengthBytes = 12
	saltLengthBytes  = 16

	defaultKDFTime    = 1
	defaultKDFMemory  = 64 * 1024
	defaultKDFThreads = 4
)

// FileStore keeps credentials in one AES-256-GCM encrypted JSON file. The
// key is either given directly or derived from a passphrase with argon2id,
// in which case a fresh salt is written with every save.
type FileStore struct {
	path       string
	key        []byte
	passphrase []byte
	kdf        kdfSettings

	mu          sync.Mutex
	initialized bool
}

type kdfSettings struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

type envelope struct {
	Version    int    `json:"version"`
	Salt       string `json:"salt,omitempty"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

type snapshot struct {
	Secrets map[string]string `json:"secrets"`
}

// New validates cfg and loads its key material. The store file itself is
// only touched by the first operation.
func New(cfg config.SecretStore) (*FileStore, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, validationError("secret-store.path is required", nil)
	}
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	setCount := countSet(
		strings.TrimSpace(cfg.Key) != "",
		strings.TrimSpace(cfg.KeyFile) != "",
		strings.TrimSpace(cfg.Passphrase) != "",
		strings.TrimSpace(cfg.PassphraseFile) != "",
	)
	if setCount != 1 {
		return nil, validationError("secret-store must define exactly one of key, key-file, passphrase, passphrase-file", nil)
	}

	kdf, err := resolveKDFSettings(cfg.KDF)
	if err != nil {
		return nil, err
	}

	store := &FileStore{path: path, kdf: kdf}

	switch {
	case strings.TrimSpace(cfg.Key) != "":
		store.key, err = parseEncryptionKey(cfg.Key)
		if err != nil {
			return nil, err
		}
	case strings.TrimSpace(cfg.KeyFile) != "":
		data, readErr := os.ReadFile(strings.TrimSpace(cfg.KeyFile))
		if readErr != nil {
			return nil, validationError("secret-store.key-file could not be read", readErr)
		}
		store.key, err = parseEncryptionKey(string(data))
		if err != nil {
			return nil, err
		}
	case strings.TrimSpace(cfg.Passphrase) != "":
		store.passphrase = []byte(strings.TrimSpace(cfg.Passphrase))
	default:
		data, readErr := os.ReadFile(strings.TrimSpace(cfg.PassphraseFile))
		if readErr != nil {
			return nil, validationError("secret-store.passphrase-file could not be read", readErr)
		}
		passphrase := strings.TrimSpace(string(data))
		if passphrase == "" {
			return nil, validationError("secret-store.passphrase-file must not be empty", nil)
		}
		store.passphrase = []byte(passphrase)
	}

	return store, nil
}

// Path is the cleaned location of the encrypted file.
func (s *FileStore) Path() string {
	return s.path
}

// Init creates an empty store when the file is missing and otherwise checks
// that the key material opens it.
func (s *FileStore) Init(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.initLocked()
}

func (s *FileStore) Set(_ context.Context, key string, value string) error {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return err
	}
	current, err := s.readLocked()
	if err != nil {
		return err
	}
	current.Secrets[normalizedKey] = value

	return s.writeLocked(current)
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return "", err
	}
	current, err := s.readLocked()
	if err != nil {
		return "", err
	}

	value, found := current.Secrets[normalizedKey]
	if !found {
		return "", faults.Errorf(faults.NotFoundError, "secret %q not found", normalizedKey)
	}
	return value, nil
}

// Delete removes key. Removing a missing key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return err
	}
	current, err := s.readLocked()
	if err != nil {
		return err
	}
	delete(current.Secrets, normalizedKey)

	return s.writeLocked(current)
}

// List returns the stored keys in sorted order. Values are never listed.
func (s *FileStore) List(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return nil, err
	}
	current, err := s.readLocked()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(current.Secrets))
	for key := range current.Secrets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) initLocked() error {
	if s == nil {
		return validationError("secret store must not be nil", nil)
	}
	if len(s.key) == 0 && len(s.passphrase) == 0 {
		return validationError("secret store key material is missing", nil)
	}

	if _, err := os.Stat(s.path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return internalError("failed to inspect secret store file", err)
		}
		if err := s.writeLocked(snapshot{Secrets: map[string]string{}}); err != nil {
			return err
		}
		s.initialized = true
		return nil
	}

	if !s.initialized {
		if _, err := s.readLocked(); err != nil {
			return err
		}
	}
	s.initialized = true
	return nil
}

func (s *FileStore) readLocked() (snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return snapshot{}, internalError("failed to read secret store", err)
	}

	var sealed envelope
	if err := json.Unmarshal(data, &sealed); err != nil {
		return snapshot{}, internalError("failed to decode secret store", err)
	}
	if sealed.Version != envelopeVersion {
		return snapshot{}, validationError("secret store format version is unsupported", nil)
	}

	nonce, err := base64.StdEncoding.DecodeString(sealed.Nonce)
	if err != nil {
		return snapshot{}, validationError("secret store nonce is invalid", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(sealed.Ciphertext)
	if err != nil {
		return snapshot{}, validationError("secret store ciphertext is invalid", err)
	}
	var salt []byte
	if sealed.Salt != "" {
		salt, err = base64.StdEncoding.DecodeString(sealed.Salt)
		if err != nil {
			return snapshot{}, validationError("secret store salt is invalid", err)
		}
	}

	gcm, err := s.cipherFor(salt)
	if err != nil {
		return snapshot{}, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return snapshot{}, faults.NewTypedError(faults.AuthError, "failed to decrypt secret store with the configured key material", err)
	}

	var opened snapshot
	if err := json.Unmarshal(plaintext, &opened); err != nil {
		return snapshot{}, internalError("failed to decode decrypted secret store", err)
	}
	if opened.Secrets == nil {
		opened.Secrets = make(map[string]string)
	}
	return opened, nil
}

func (s *FileStore) writeLocked(current snapshot) error {
	if current.Secrets == nil {
		current.Secrets = make(map[string]string)
	}
	plaintext, err := json.Marshal(current)
	if err != nil {
		return internalError("failed to encode secrets", err)
	}

	nonce, err := randomBytes(nonceLengthBytes)
	if err != nil {
		return internalError("failed to generate secret nonce", err)
	}
	var salt []byte
	if len(s.passphrase) > 0 {
		salt, err = randomBytes(saltLengthBytes)
		if err != nil {
			return internalError("failed to generate secret salt", err)
		}
	}

	gcm, err := s.cipherFor(salt)
	if err != nil {
		return err
	}

	sealed := envelope{
		Version:    envelopeVersion,
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plaintext, nil)),
	}
	if len(salt) > 0 {
		sealed.Salt = base64.StdEncoding.EncodeToString(salt)
	}

	encoded, err := json.Marshal(sealed)
	if err != nil {
		return internalError("failed to encode secret store", err)
	}
	return writeAtomicFile(s.path, encoded, 0o600)
}

func (s *FileStore) cipherFor(salt []byte) (cipher.AEAD, error) {
	key, err := s.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, internalError("failed to initialize secret cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, internalError("failed to initialize secret cipher mode", err)
	}
	return gcm, nil
}

func (s *FileStore) deriveKey(salt []byte) ([]byte, error) {
	if len(s.key) > 0 {
		return s.key, nil
	}
	if len(salt) == 0 {
		return nil, validationError("secret store salt is missing", nil)
	}
	return argon2.IDKey(s.passphrase, salt, s.kdf.Time, s.kdf.Memory, s.kdf.Threads, keyLengthBytes), nil
}

func resolveKDFSettings(kdf *config.KDF) (kdfSettings, error) {
	settings := kdfSettings{
		Time:    defaultKDFTime,
		Memory:  defaultKDFMemory,
		Threads: defaultKDFThreads,
	}
	if kdf == nil {
		return settings, nil
	}
	if kdf.Time < 0 || kdf.Memory < 0 || kdf.Threads < 0 || kdf.Threads > 255 {
		return kdfSettings{}, validationError("secret-store.kdf values must be between zero and their limit", nil)
	}
	if kdf.Time > 0 {
		settings.Time = uint32(kdf.Time)
	}
	if kdf.Memory > 0 {
		settings.Memory = uint32(kdf.Memory)
	}
	if kdf.Threads > 0 {
		settings.Threads = uint8(kdf.Threads)
	}
	return settings, nil
}

// parseEncryptionKey accepts 32 bytes given as hex, base64 or raw text.
func parseEncryptionKey(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, validationError("secret-store.key must not be empty", nil)
	}
	if decoded, err := hex.DecodeString(trimmed); err == nil && len(decoded) == keyLengthBytes {
		return decoded, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil && len(decoded) == keyLengthBytes {
		return decoded, nil
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(trimmed); err == nil && len(decoded) == keyLengthBytes {
		return decoded, nil
	}
	if len(trimmed) == keyLengthBytes {
		return []byte(trimmed), nil
	}
	return nil, validationError("secret-store.key must be 32 bytes as raw text, base64 or hex", nil)
}

func normalizeKey(key string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(key), "/")
	if trimmed == "" {
		return "", validationError("secret key must not be empty", nil)
	}
	parts := strings.Split(trimmed, "/")
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", validationError("secret key contains an invalid path segment", nil)
		}
	}
	return strings.Join(parts, "/"), nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", internalError("resolve user home directory", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Clean(path), nil
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

func randomBytes(length int) ([]byte, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}

func writeAtomicFile(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return internalError("failed to create secret store directory", err)
	}

	tempFile, err := os.CreateTemp(dir, ".shopctl-secrets-*")
	if err != nil {
		return internalError("failed to create temporary secret file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to write temporary secret file", err)
	}
	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to set secret file permissions", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to close temporary secret file", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to replace secret store file", err)
	}
	return nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
