package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestStartSpan_Disabled(t *testing.T) {
	if err := Init(Config{Enabled: false}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "noop")
	span.End()

	if _, _, ok := IDs(ctx); ok {
		t.Error("expected no ids when tracing is disabled")
	}
}

func TestStartSpan_Enabled(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Enabled: true, Version: "test", Writer: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Init(Config{Enabled: false})

	ctx, span := StartSpan(context.Background(), "upload", attribute.String("filename", "a.csv"))
	traceID, spanID, ok := IDs(ctx)
	span.End()

	if !ok || traceID == "" || spanID == "" {
		t.Fatal("expected valid span ids")
	}

	if err := Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"upload"`) {
		t.Errorf("expected exported span, got %s", buf.String())
	}
}
