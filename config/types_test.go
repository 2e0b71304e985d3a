package config

import (
	"testing"
	"time"
)

func TestShopEffectiveValues(t *testing.T) {
	t.Parallel()

	if got := (Shop{}).EffectiveAPIVersion(); got != DefaultAPIVersion {
		t.Fatalf("expected default api version, got %q", got)
	}
	if got := (Shop{APIVersion: " 2025-01 "}).EffectiveAPIVersion(); got != "2025-01" {
		t.Fatalf("expected configured api version, got %q", got)
	}
	if got := (Shop{Timeout: "5s"}).EffectiveTimeout(); got != 5*time.Second {
		t.Fatalf("expected 5s, got %s", got)
	}
	if got := (Shop{Timeout: "soon"}).EffectiveTimeout(); got != DefaultRequestTimeout {
		t.Fatalf("expected default timeout for invalid value, got %s", got)
	}
}

func TestRetryEffectiveValues(t *testing.T) {
	t.Parallel()

	var unset *Retry
	if unset.EffectiveMaxAttempts() != DefaultMaxAttempts {
		t.Fatalf("expected default attempts for nil retry")
	}
	if unset.EffectiveInitialInterval() != DefaultInitialInterval || unset.EffectiveMaxInterval() != DefaultMaxInterval {
		t.Fatalf("expected default intervals for nil retry")
	}

	configured := &Retry{MaxAttempts: 5, InitialInterval: "100ms", MaxInterval: "2s"}
	if configured.EffectiveMaxAttempts() != 5 {
		t.Fatalf("expected 5 attempts, got %d", configured.EffectiveMaxAttempts())
	}
	if configured.EffectiveInitialInterval() != 100*time.Millisecond || configured.EffectiveMaxInterval() != 2*time.Second {
		t.Fatalf("unexpected intervals %s %s", configured.EffectiveInitialInterval(), configured.EffectiveMaxInterval())
	}
}
