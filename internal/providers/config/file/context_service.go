package file

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
)

var _ config.ContextService = (*FileContextService)(nil)

// EnvContextName names the context assembled from overrides alone when the
// catalog has no entries.
const EnvContextName = "env"

// FileContextService keeps the context catalog in one YAML file. Writes are
// serialised within the process and replace the file atomically.
type FileContextService struct {
	path string
	mu   sync.Mutex
}

func NewFileContextService(path string) *FileContextService {
	return &FileContextService{path: path}
}

func (s *FileContextService) Create(_ context.Context, cfg config.Context) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	return s.modify(func(catalog *config.ContextCatalog) error {
		if indexOf(catalog.Contexts, cfg.Name) >= 0 {
			return faults.Errorf(faults.ConflictError, "context %q already exists", cfg.Name)
		}
		catalog.Contexts = append(catalog.Contexts, cfg)
		if catalog.CurrentCtx == "" {
			catalog.CurrentCtx = cfg.Name
		}
		return nil
	})
}

func (s *FileContextService) Update(_ context.Context, cfg config.Context) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	return s.modify(func(catalog *config.ContextCatalog) error {
		idx := indexOf(catalog.Contexts, cfg.Name)
		if idx < 0 {
			return contextNotFound(cfg.Name)
		}
		catalog.Contexts[idx] = cfg
		return nil
	})
}

// Delete removes a context; when it was current, the first remaining one
// becomes current.
func (s *FileContextService) Delete(_ context.Context, name string) error {
	return s.modify(func(catalog *config.ContextCatalog) error {
		idx := indexOf(catalog.Contexts, name)
		if idx < 0 {
			return contextNotFound(name)
		}
		catalog.Contexts = append(catalog.Contexts[:idx], catalog.Contexts[idx+1:]...)
		if catalog.CurrentCtx == name {
			catalog.CurrentCtx = ""
			if len(catalog.Contexts) > 0 {
				catalog.CurrentCtx = catalog.Contexts[0].Name
			}
		}
		return nil
	})
}

func (s *FileContextService) SetCurrent(_ context.Context, name string) error {
	return s.modify(func(catalog *config.ContextCatalog) error {
		if indexOf(catalog.Contexts, name) < 0 {
			return contextNotFound(name)
		}
		catalog.CurrentCtx = name
		return nil
	})
}

func (s *FileContextService) List(_ context.Context) ([]config.Context, error) {
	catalog, err := s.read()
	if err != nil {
		return nil, err
	}
	return append([]config.Context(nil), catalog.Contexts...), nil
}

func (s *FileContextService) GetCurrent(_ context.Context) (config.Context, error) {
	catalog, err := s.read()
	if err != nil {
		return config.Context{}, err
	}
	return lookupCurrent(catalog, "")
}

// ResolveContext returns the selected context with overrides and defaults
// applied and secret references replaced by their stored values. With an
// empty catalog and no explicit name, the context is built from the
// overrides alone.
func (s *FileContextService) ResolveContext(ctx context.Context, selection config.ContextSelection) (config.Context, error) {
	catalog, err := s.read()
	if err != nil {
		return config.Context{}, err
	}

	base := config.Context{Name: EnvContextName}
	if len(catalog.Contexts) > 0 || selection.Name != "" || len(selection.Overrides) == 0 {
		base, err = lookupCurrent(catalog, selection.Name)
		if err != nil {
			return config.Context{}, err
		}
	}

	resolved, err := applyOverrides(normalizeConfig(base), selection.Overrides)
	if err != nil {
		return config.Context{}, err
	}
	resolved = applyConfigDefaults(resolved)
	if err := validateResolved(resolved); err != nil {
		return config.Context{}, err
	}
	return resolveSecretReferences(ctx, resolved)
}

func (s *FileContextService) Validate(_ context.Context, cfg config.Context) error {
	return validateConfig(normalizeConfig(cfg))
}

func (s *FileContextService) read() (config.ContextCatalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileContextService) modify(change func(*config.ContextCatalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load()
	if err != nil {
		return err
	}
	if err := change(&catalog); err != nil {
		return err
	}

	compacted := config.ContextCatalog{
		CurrentCtx: catalog.CurrentCtx,
		Contexts:   make([]config.Context, len(catalog.Contexts)),
	}
	for idx, item := range catalog.Contexts {
		compacted.Contexts[idx] = compactConfigForPersistence(item)
	}
	if err := validateCatalog(compacted); err != nil {
		return err
	}

	path, err := resolveCatalogPath(s.path)
	if err != nil {
		return err
	}
	return writeCatalogFile(path, compacted)
}

// load treats a missing file as an empty catalog.
func (s *FileContextService) load() (config.ContextCatalog, error) {
	path, err := resolveCatalogPath(s.path)
	if err != nil {
		return config.ContextCatalog{}, err
	}

	catalog, err := decodeCatalogFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.ContextCatalog{}, nil
	}
	if err != nil {
		return config.ContextCatalog{}, err
	}
	if err := validateCatalog(catalog); err != nil {
		return config.ContextCatalog{}, err
	}
	return catalog, nil
}

// lookupCurrent finds name, or the current context when name is empty.
func lookupCurrent(catalog config.ContextCatalog, name string) (config.Context, error) {
	if name == "" {
		name = catalog.CurrentCtx
	}
	if name == "" {
		return config.Context{}, faults.NewTypedError(faults.NotFoundError, "current context not set", nil)
	}
	idx := indexOf(catalog.Contexts, name)
	if idx < 0 {
		return config.Context{}, contextNotFound(name)
	}
	return catalog.Contexts[idx], nil
}

func indexOf(contexts []config.Context, name string) int {
	for idx, item := range contexts {
		if item.Name == name {
			return idx
		}
	}
	return -1
}

func contextNotFound(name string) error {
	return faults.Errorf(faults.NotFoundError, "context %q not found", name)
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
