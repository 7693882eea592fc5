package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSetupTracingDisabled(t *testing.T) {
	for _, exporter := range []string{"", "none", " NONE "} {
		shutdown, err := SetupTracing(context.Background(), TraceConfig{Exporter: exporter}, nil)
		if err != nil {
			t.Fatalf("exporter %q: %v", exporter, err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}
}

func TestSetupTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := SetupTracing(context.Background(), TraceConfig{Exporter: "stdout", Writer: &buf}, nil)
	if err != nil {
		t.Fatalf("SetupTracing: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "convert-one")
	span.End()
	if !strings.Contains(buf.String(), "convert-one") {
		t.Fatalf("span should be exported as soon as it ends")
	}

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "convert-one") {
		t.Fatalf("span not exported: %s", buf.String())
	}
	if !strings.Contains(buf.String(), ServiceName) {
		t.Fatalf("service name missing from resource")
	}
}

func TestSetupTracingErrors(t *testing.T) {
	cases := []TraceConfig{
		{Exporter: "zipkin"},
		{Exporter: "otlp"},
	}
	for _, cfg := range cases {
		if _, err := SetupTracing(context.Background(), cfg, nil); err == nil {
			t.Errorf("%+v: expected error", cfg)
		}
	}
}
