package debugctx

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPrintfWritesOnlyWhenEnabled(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	ctx := WithWriter(context.Background(), &output)

	Printf(ctx, "resolved path=%q", "products/1")
	if output.Len() != 0 {
		t.Fatalf("expected no output while disabled, got %q", output.String())
	}

	ctx = WithEnabled(ctx, true)
	Printf(ctx, "resolved path=%q", "products/1")
	Info(ctx, "http response", "status", 200)

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two debug lines, got %q", output.String())
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "debug: ") {
			t.Fatalf("expected debug prefix, got %q", line)
		}
	}
	if !strings.Contains(lines[0], `resolved path=\"products/1\"`) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], `"status"=200`) {
		t.Fatalf("expected structured key/value, got %q", lines[1])
	}
}

func TestLoggerDefaultsToDiscard(t *testing.T) {
	t.Parallel()

	ctx := WithEnabled(context.Background(), true)
	Printf(ctx, "nothing to see")
	if Logger(nil).GetSink() != nil {
		t.Fatal("expected discard logger for nil context")
	}
	if Enabled(nil) {
		t.Fatal("nil context must not be enabled")
	}
}
