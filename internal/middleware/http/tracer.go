package middleware_http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"product-catalog/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

// TraceIDHeader carries the trace id of the request back to the caller.
const TraceIDHeader = "X-Trace-ID"

const tracerName = "HttpMiddleware"

// ResponseWriter captures status, size and body.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	buf        bytes.Buffer
}

func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *ResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)

	if room := logger.MaxBodyLogged - rw.buf.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.buf.Write(b[:room])
	}
	return n, err
}

func (rw *ResponseWriter) Status() int                 { return rw.statusCode }
func (rw *ResponseWriter) Size() int64                 { return rw.size }
func (rw *ResponseWriter) Body() []byte                { return rw.buf.Bytes() }
func (rw *ResponseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// TraceMiddleware starts a server span per request, continuing any trace
// found in the incoming headers. It logs the request and the response and
// marks the span as failed for 4xx and 5xx responses.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := otel.Tracer(tracerName).Start(ctx, r.Method+" "+r.URL.Path)
		defer func() {
			if rec := recover(); rec != nil {
				span.RecordError(errFromRecover(rec))
				span.SetStatus(codes.Error, "panic occurred")
				span.End()
				panic(rec)
			}
			span.End()
		}()

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		)

		logger.Info(ctx, "HTTP", logger.RequestAttrs(r, "incoming::request")...)

		rw := NewResponseWriter(w)
		rw.Header().Set(TraceIDHeader, span.SpanContext().TraceID().String())

		start := time.Now()
		next.ServeHTTP(rw, r.WithContext(ctx))
		duration := time.Since(start)

		span.SetAttributes(attribute.Int("http.status_code", rw.statusCode))
		switch {
		case rw.statusCode >= 500:
			span.SetStatus(codes.Error, "internal server error")
		case rw.statusCode >= 400:
			span.SetStatus(codes.Error, "client error")
		default:
			span.SetStatus(codes.Ok, "")
		}

		logger.Info(ctx, "HTTP", logger.ResponseAttrs(r, rw.Header(), rw.statusCode, rw.Body(), duration.Milliseconds(), "incoming::response")...)
	})
}

func errFromRecover(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", rec)
}
