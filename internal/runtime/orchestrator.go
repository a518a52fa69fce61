package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/ports"
)

// Resolver finds the strategy declaring a rule name.
type Resolver interface {
	Resolve(name string) (ports.Strategy, error)
}

// Orchestrator applies parsed tokens to a text strictly in order.
// It keeps no per-run state, so one instance serves concurrent callers.
type Orchestrator struct {
	resolver Resolver
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates an orchestrator bound to a resolver.
func NewOrchestrator(resolver Resolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute runs every token against text. It stops at the first failure and
// returns only the error, which records the failing step and the rules
// applied before it. The context is handed to lifecycle hooks; a run is not
// interruptible once started.
func (o *Orchestrator) Execute(ctx context.Context, text string, tokens []domain.RuleToken) (string, *domain.ExecutionTrace, error) {
	start := o.now()
	trace := &domain.ExecutionTrace{
		Applied:          make([]string, 0, len(tokens)),
		PerRuleElapsedMS: make([]float64, 0, len(tokens)),
		InputLen:         utf8.RuneCountInString(text),
	}
	result := text

	for i, tok := range tokens {
		step := domain.StepContext{Index: i, Total: len(tokens), Applied: trace.Applied}

		strategy, err := o.resolver.Resolve(tok.Name)
		if err != nil {
			return "", nil, o.fail(ctx, domain.WithStep(err, tok.Name, tok.Args, step), tok, i, 0)
		}

		o.emitRuleStart(ctx, tok, i)
		stepStart := o.now()
		out, err := safeTransform(strategy, result, tok)
		elapsed := o.now().Sub(stepStart)
		if err != nil {
			return "", nil, o.fail(ctx, domain.WithStep(err, tok.Name, tok.Args, step), tok, i, elapsed)
		}

		result = out
		trace.Record(tok.Name, elapsed)
		o.logger.Debug("rule applied", "rule", tok.Name, "step", i+1, "elapsed", elapsed)
		o.emitRuleApplied(ctx, tok, i, elapsed)
	}

	trace.OutputLen = utf8.RuneCountInString(result)
	trace.Total = o.now().Sub(start)
	o.logger.Debug("pipeline completed", "rules", len(tokens), "elapsed", trace.Total)
	o.emitPipelineDone(ctx, trace, nil)
	return result, trace, nil
}

func (o *Orchestrator) fail(ctx context.Context, err error, tok domain.RuleToken, index int, elapsed time.Duration) error {
	o.logger.Debug("pipeline failed", "rule", tok.Name, "step", index+1, "kind", domain.Kind(err), "error", err)
	o.emitRuleFailed(ctx, tok, index, elapsed, err)
	o.emitPipelineDone(ctx, nil, err)
	return err
}

// safeTransform turns a panicking strategy into an ordinary failure.
func safeTransform(s ports.Strategy, text string, tok domain.RuleToken) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Transform(text, tok.Name, tok.Args)
}
