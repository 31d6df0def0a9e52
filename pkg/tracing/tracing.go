// Package tracing holds the tracer shared by the service packages.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer resolves through the global provider, which is a no-op until one is installed.
var Tracer trace.Tracer = otel.Tracer("github.com/chris/scheduled-withdrawals")

// RecordError attaches err to the span and returns it.
func RecordError(span trace.Span, err error) error {
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
	return err
}
