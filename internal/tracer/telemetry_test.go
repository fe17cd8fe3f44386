package tracer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"product-catalog/internal/config"

	"go.opentelemetry.io/otel"
)

func TestInit_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	prev := Stdout
	Stdout = &buf
	defer func() { Stdout = prev }()

	shutdown, err := Init(context.Background(), &config.Config{AppName: "catalog-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "unit-span")
	span.End()

	shutdown(context.Background())

	if !strings.Contains(buf.String(), "unit-span") {
		t.Errorf("expected exported span in output, got %q", buf.String())
	}
}
