package common

import (
	"context"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/core"
)

// SessionFactory builds the shop session for the selected context. Commands
// call it lazily so context management works without a reachable shop.
type SessionFactory func(ctx context.Context, selection config.ContextSelection) (core.Session, error)

type CommandDependencies struct {
	Contexts   config.ContextService
	NewSession SessionFactory
}

func RequireContexts(deps CommandDependencies) (config.ContextService, error) {
	if deps.Contexts == nil {
		return nil, ValidationError("context service is not configured", nil)
	}
	return deps.Contexts, nil
}

// RequireSession resolves the context named by --context (or the
// environment) and returns a ready session.
func RequireSession(ctx context.Context, deps CommandDependencies) (core.Session, error) {
	if deps.NewSession == nil {
		return core.Session{}, ValidationError("shop session is not configured", nil)
	}
	session, err := deps.NewSession(ctx, Selection(ctx))
	if err != nil {
		return core.Session{}, err
	}
	if session.Transport == nil {
		return core.Session{}, ValidationError("shop session has no transport", nil)
	}
	return session, nil
}
