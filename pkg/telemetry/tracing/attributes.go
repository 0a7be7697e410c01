package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on lint spans.
const (
	AttrPassID   = "modlint.pass_id"
	AttrPath     = "modlint.document.path"
	AttrKind     = "modlint.document.kind"
	AttrRule     = "modlint.rule"
	AttrFindings = "modlint.findings"
	AttrTrigger  = "modlint.trigger"
)

// SetDocumentAttributes sets the document a pass runs on.
func SetDocumentAttributes(span trace.Span, passID, path, kind string) {
	span.SetAttributes(
		attribute.String(AttrPassID, passID),
		attribute.String(AttrPath, path),
		attribute.String(AttrKind, kind),
	)
}

// SetFindingCount records how many findings a pass or rule produced.
func SetFindingCount(span trace.Span, n int) {
	span.SetAttributes(attribute.Int(AttrFindings, n))
}

// RuleAttribute names the rule a span covers.
func RuleAttribute(rule string) attribute.KeyValue {
	return attribute.String(AttrRule, rule)
}

// TriggerAttribute names what caused a watch mode pass.
func TriggerAttribute(trigger string) attribute.KeyValue {
	return attribute.String(AttrTrigger, trigger)
}
