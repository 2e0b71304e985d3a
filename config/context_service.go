package config

import "context"

// ContextStore edits the saved catalog.
type ContextStore interface {
	Create(ctx context.Context, cfg Context) error
	Update(ctx context.Context, cfg Context) error
	Delete(ctx context.Context, name string) error
	SetCurrent(ctx context.Context, name string) error
}

type ContextLister interface {
	List(ctx context.Context) ([]Context, error)
	GetCurrent(ctx context.Context) (Context, error)
}

// ContextResolver produces a context ready to reach a shop: overrides
// applied, defaults filled and credentials present.
type ContextResolver interface {
	ResolveContext(ctx context.Context, selection ContextSelection) (Context, error)
	Validate(ctx context.Context, cfg Context) error
}

type ContextService interface {
	ContextStore
	ContextLister
	ContextResolver
}
