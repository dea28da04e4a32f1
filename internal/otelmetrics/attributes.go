package otelmetrics

import (
	"go.opentelemetry.io/otel/attribute"
)

func attributeLinkType(lt string) attribute.KeyValue {
	return attribute.String("link_type", lt)
}
