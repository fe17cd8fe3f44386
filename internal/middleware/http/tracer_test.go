package middleware_http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestTraceMiddleware_SetsTraceHeaderAndStatus(t *testing.T) {
	rec := withRecorder(t)

	var handlerSpan trace.SpanContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerSpan = trace.SpanContextFromContext(r.Context())
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name":"Widget"}` {
			t.Errorf("handler did not receive the full body, got %q", body)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Product not found"}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Widget"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	TraceMiddleware(next).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	traceID := w.Header().Get(TraceIDHeader)
	if len(traceID) != 32 {
		t.Errorf("expected trace id header, got %q", traceID)
	}
	if !handlerSpan.IsValid() || handlerSpan.TraceID().String() != traceID {
		t.Errorf("expected handler context to carry the request span")
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "POST /api/products" {
		t.Errorf("unexpected span name %q", spans[0].Name())
	}
	if spans[0].Status().Description != "client error" {
		t.Errorf("expected client error status, got %+v", spans[0].Status())
	}
}

func TestTraceMiddleware_RepanicsAndEndsSpan(t *testing.T) {
	rec := withRecorder(t)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("expected panic to propagate, got %v", r)
		}
		if len(rec.Ended()) != 1 {
			t.Errorf("expected span to be ended")
		}
	}()

	TraceMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))
}

func TestResponseWriter_CapturesBody(t *testing.T) {
	rw := NewResponseWriter(httptest.NewRecorder())
	_, _ = rw.Write([]byte("hello"))

	if rw.Status() != http.StatusOK || rw.Size() != 5 || string(rw.Body()) != "hello" {
		t.Errorf("unexpected capture: status=%d size=%d body=%q", rw.Status(), rw.Size(), rw.Body())
	}
}
