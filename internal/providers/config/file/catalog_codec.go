package file

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/crmarques/shopctl/config"
)

const catalogHeader = "# shopctl contexts; edit with `shopctl context` or by hand.\n"

func decodeCatalogFile(path string) (config.ContextCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.ContextCatalog{}, err
	}
	return decodeCatalog(data)
}

// decodeCatalog rejects unknown keys so misspelled settings fail loudly.
func decodeCatalog(data []byte) (config.ContextCatalog, error) {
	var catalog config.ContextCatalog
	if len(bytes.TrimSpace(data)) == 0 {
		return catalog, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		return config.ContextCatalog{}, validationError("invalid context catalog yaml", err)
	}
	return catalog, nil
}

func encodeCatalog(catalog config.ContextCatalog) ([]byte, error) {
	buffer := bytes.NewBufferString(catalogHeader)
	encoder := yaml.NewEncoder(buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(catalog); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// writeCatalogFile replaces path through a temp file in the same directory.
// The catalog holds access tokens, so both are 0600.
func writeCatalogFile(path string, catalog config.ContextCatalog) error {
	encoded, err := encodeCatalog(catalog)
	if err != nil {
		return internalError("encode context catalog", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return internalError("create context catalog directory", err)
	}

	temp, err := os.CreateTemp(dir, ".contexts-*.yaml")
	if err != nil {
		return internalError("create temporary context catalog", err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	if err := temp.Chmod(0o600); err != nil {
		_ = temp.Close()
		return internalError("restrict context catalog permissions", err)
	}
	if _, err := temp.Write(encoded); err != nil {
		_ = temp.Close()
		return internalError("write context catalog", err)
	}
	if err := temp.Close(); err != nil {
		return internalError("close context catalog", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return internalError("replace context catalog", err)
	}
	return nil
}

// resolveCatalogPath picks the explicit path, then SHOPCTL_CONTEXTS_FILE,
// then the default, expanding "~" and anchoring relative paths at home.
func resolveCatalogPath(explicitPath string) (string, error) {
	path := strings.TrimSpace(explicitPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(config.ContextFileEnvVar))
	}
	if path == "" {
		path = config.DefaultContextCatalogPath
	}

	if !filepath.IsAbs(path) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", internalError("resolve user home directory", err)
		}
		relative := path
		if relative == "~" || strings.HasPrefix(relative, "~/") {
			relative = strings.TrimPrefix(relative[1:], "/")
		}
		path = filepath.Join(home, relative)
	}

	path = filepath.Clean(path)
	if path == "." || path == string(filepath.Separator) {
		return "", validationError(fmt.Sprintf("context catalog path %q is invalid", explicitPath), nil)
	}
	return path, nil
}

func unknownOverrideError(key string) error {
	return validationError(fmt.Sprintf("unknown override key %q", key), nil)
}
