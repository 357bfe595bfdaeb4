package postgres

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("eventrsvp/internal/repository/postgres")
