package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/resolve"
	"mercator-hq/modlint/pkg/lint/rules"
	"mercator-hq/modlint/pkg/telemetry/logging"
	"mercator-hq/modlint/pkg/telemetry/metrics"
	"mercator-hq/modlint/pkg/telemetry/tracing"
)

// ErrNotLintable is returned for files whose kind has no rules.
var ErrNotLintable = errors.New("file kind is not linted")

// Result is the outcome of linting one file.
type Result struct {
	Path     string
	Kind     document.Kind
	PassID   string
	Findings []finding.Finding

	// Err is set when the document could not be parsed or the pass was
	// canceled. Findings is empty in that case.
	Err error
}

// Engine dispatches documents to the rules registered for their kind and
// aggregates the findings. It holds no per-document state and is safe for
// concurrent use.
type Engine struct {
	registry *rules.Registry
	parser   *document.Parser
	resolver *resolve.Resolver
	config   *EngineConfig
	disabled map[string]bool

	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// New creates an engine over registry. metrics and tracer may be nil.
func New(registry *rules.Registry, cfg *EngineConfig, logger *slog.Logger, collector *metrics.Collector, tracer *tracing.Tracer) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("rule registry cannot be nil")
	}
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	if cfg.Rules == nil {
		cfg.Rules = rules.DefaultOptions()
	}
	if err := cfg.Validate(registry); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	parser := document.NewParser().WithMaxFileSize(cfg.MaxFileSize)

	e := &Engine{
		registry: registry,
		parser:   parser,
		resolver: resolve.NewResolver(parser),
		config:   cfg,
		disabled: make(map[string]bool, len(cfg.Disabled)),
		logger:   logger.With("component", "lint.engine"),
		metrics:  collector,
		tracer:   tracer,
	}
	for _, id := range cfg.Disabled {
		e.disabled[id] = true
	}
	return e, nil
}

// Parser returns the parser the engine reads documents with.
func (e *Engine) Parser() *document.Parser {
	return e.parser
}

// Registry returns the rules the engine dispatches to.
func (e *Engine) Registry() *rules.Registry {
	return e.registry
}

// Enabled reports whether the rule with the given ID runs.
func (e *Engine) Enabled(id string) bool {
	return !e.disabled[id]
}

// Rules returns the enabled rules for kind in evaluation order.
func (e *Engine) Rules(kind document.Kind) []*rules.Rule {
	var out []*rules.Rule
	for _, rule := range e.registry.ForKind(kind) {
		if !e.disabled[rule.ID] {
			out = append(out, rule)
		}
	}
	return out
}

// Severity returns the effective severity of rule.
func (e *Engine) Severity(rule *rules.Rule) finding.Severity {
	if sev, ok := e.config.Severity[rule.ID]; ok {
		return sev
	}
	return rule.Severity
}

// LintFile reads, parses and lints the file at path.
func (e *Engine) LintFile(ctx context.Context, path string) Result {
	kind := document.DetectKind(path)
	if kind == document.KindUnknown {
		return Result{Path: path, Kind: kind, Findings: []finding.Finding{}, Err: ErrNotLintable}
	}
	if err := ctx.Err(); err != nil {
		return e.canceled(path, kind, err)
	}

	start := time.Now()
	doc, err := e.parser.ParseFile(ctx, path)
	if err != nil {
		return e.parseFailed(ctx, path, kind, start, err)
	}
	return e.run(ctx, doc, start)
}

// LintSource parses and lints text as the contents of path. Watch mode uses
// it to lint the text of the latest notification rather than what is on disk.
func (e *Engine) LintSource(ctx context.Context, path string, text []byte) Result {
	kind := document.DetectKind(path)
	if kind == document.KindUnknown {
		return Result{Path: path, Kind: kind, Findings: []finding.Finding{}, Err: ErrNotLintable}
	}
	if err := ctx.Err(); err != nil {
		return e.canceled(path, kind, err)
	}

	start := time.Now()
	doc, err := e.parser.Parse(ctx, path, kind, text)
	if err != nil {
		return e.parseFailed(ctx, path, kind, start, err)
	}
	return e.run(ctx, doc, start)
}

// Lint runs every enabled rule for the document's kind, in registration
// order, and concatenates their findings. A rule that returns an error or
// panics is logged and skipped; the remaining rules still run.
func (e *Engine) Lint(ctx context.Context, doc *document.Document) []finding.Finding {
	return e.run(ctx, doc, time.Now()).Findings
}

func (e *Engine) run(ctx context.Context, doc *document.Document, start time.Time) Result {
	passID := uuid.NewString()
	ctx = logging.WithPassID(ctx, passID)
	ctx = logging.WithPath(ctx, doc.Path)

	ctx, span := e.tracer.Start(ctx, "lint.pass")
	defer span.End()
	tracing.SetDocumentAttributes(span, passID, doc.Path, doc.Kind.String())

	if doc.SyntaxErrors {
		e.logger.DebugContext(ctx, "document has syntax errors; linting recovered tree")
	}

	list := finding.NewList()
	for _, rule := range e.Rules(doc.Kind) {
		list.Extend(e.runRule(ctx, rule, doc))
	}
	findings := list.Findings

	for _, f := range findings {
		e.metrics.RecordFinding(f.Rule, string(f.Severity))
	}
	e.metrics.RecordPass(doc.Kind.String(), metrics.OutcomeOK, time.Since(start))
	tracing.SetFindingCount(span, len(findings))

	e.logger.DebugContext(ctx, "lint pass complete",
		"kind", doc.Kind.String(),
		"findings", list.Len(),
		"errors", list.Count(finding.SeverityError),
		"duration", time.Since(start),
	)

	return Result{
		Path:     doc.Path,
		Kind:     doc.Kind,
		PassID:   passID,
		Findings: findings,
	}
}

// runRule executes one rule in isolation. Findings reported before a fault
// are kept.
func (e *Engine) runRule(ctx context.Context, rule *rules.Rule, doc *document.Document) (findings []finding.Finding) {
	ctx, span := e.tracer.Start(ctx, "lint.rule")
	span.SetAttributes(tracing.RuleAttribute(rule.ID))
	defer span.End()

	pass := rules.NewPass(ctx, rule, doc, e.resolver, e.config.Rules, e.Severity(rule), e.logger)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("rule %s panicked: %v", rule.ID, r)
			e.fault(ctx, rule, err, "stack", string(debug.Stack()))
			tracing.SetError(span, err)
			tracing.SetStatus(span, err)
			findings = pass.Findings()
		}
	}()

	if err := rule.Check(pass); err != nil {
		e.fault(ctx, rule, err)
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
	}

	findings = pass.Findings()
	tracing.SetFindingCount(span, len(findings))
	return findings
}

func (e *Engine) fault(ctx context.Context, rule *rules.Rule, err error, args ...any) {
	e.metrics.RecordRuleFault(rule.ID)
	e.logger.WarnContext(ctx, "rule failed", append([]any{"rule", rule.ID, "error", err}, args...)...)
}

func (e *Engine) parseFailed(ctx context.Context, path string, kind document.Kind, start time.Time, err error) Result {
	e.metrics.RecordParseFailure(kind.String())
	e.metrics.RecordPass(kind.String(), metrics.OutcomeParseFailed, time.Since(start))
	e.logger.WarnContext(logging.WithPath(ctx, path), "document not linted: parse failed",
		"kind", kind.String(),
		"error", err,
	)
	return Result{Path: path, Kind: kind, Findings: []finding.Finding{}, Err: err}
}

func (e *Engine) canceled(path string, kind document.Kind, err error) Result {
	e.metrics.RecordPass(kind.String(), metrics.OutcomeCanceled, 0)
	return Result{Path: path, Kind: kind, Findings: []finding.Finding{}, Err: err}
}
