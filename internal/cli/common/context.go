package common

import (
	"context"

	"github.com/crmarques/shopctl/config"
)

type selectionKey struct{}

// WithSelection records the context chosen by the root command's flags.
func WithSelection(ctx context.Context, selection config.ContextSelection) context.Context {
	return context.WithValue(ctx, selectionKey{}, selection)
}

func Selection(ctx context.Context) config.ContextSelection {
	if ctx == nil {
		return config.ContextSelection{}
	}
	selection, _ := ctx.Value(selectionKey{}).(config.ContextSelection)
	return selection
}
