package services

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("eventrsvp/internal/services")
