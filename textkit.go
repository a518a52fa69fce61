package textkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/textkit/internal/parser"
	"github.com/aretw0/textkit/internal/runtime"
	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/ports"
	"github.com/aretw0/textkit/pkg/registry"
	"github.com/aretw0/textkit/pkg/transformers"
)

// Engine is the high-level entry point for the textkit library.
// It wires the parser, the strategy registry and the orchestrator.
// An Engine is immutable after New and safe for concurrent use.
type Engine struct {
	parser       *parser.Parser
	registry     *registry.Registry
	orchestrator *runtime.Orchestrator

	strategies []ports.Strategy
	noDefaults bool
	disabled   []string
	keys       ports.KeyProvider
	maxRules   int
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithStrategies registers extra strategies after the built-in families.
func WithStrategies(strategies ...ports.Strategy) Option {
	return func(e *Engine) {
		e.strategies = append(e.strategies, strategies...)
	}
}

// WithoutDefaultStrategies skips the built-in families entirely.
func WithoutDefaultStrategies() Option {
	return func(e *Engine) {
		e.noDefaults = true
	}
}

// WithDisabledFamilies skips the named built-in families.
func WithDisabledFamilies(names ...string) Option {
	return func(e *Engine) {
		e.disabled = append(e.disabled, names...)
	}
}

// WithKeyProvider enables the crypto family (enc, dec) backed by keys.
func WithKeyProvider(keys ports.KeyProvider) Option {
	return func(e *Engine) {
		e.keys = keys
	}
}

// WithMaxRules rejects rule strings with more than n rules.
func WithMaxRules(n int) Option {
	return func(e *Engine) {
		e.maxRules = n
	}
}

// New builds an Engine. Registration happens here, once; a rule name
// declared by two strategies aborts construction with a *domain.CollisionError.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var all []ports.Strategy
	if !eng.noDefaults {
		all = append(all, transformers.Defaults(eng.disabled...)...)
	}
	if eng.keys != nil {
		all = append(all, transformers.NewCrypto(eng.keys))
	}
	all = append(all, eng.strategies...)

	eng.registry = registry.NewRegistry()
	for _, s := range all {
		if err := eng.registry.Register(s); err != nil {
			return nil, fmt.Errorf("failed to register strategy: %w", err)
		}
	}

	eng.parser = parser.NewParser(
		parser.WithLogger(eng.logger),
		parser.WithMaxRules(eng.maxRules),
	)
	eng.orchestrator = runtime.NewOrchestrator(eng.registry,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	eng.logger.Debug("engine ready", "rules", len(eng.registry.Names()), "strategies", len(all))
	return eng, nil
}

// Apply runs the rule string against text and returns the transformed text.
func (e *Engine) Apply(text, rules string) (string, error) {
	out, _, err := e.ApplyWithTrace(context.Background(), text, rules)
	return out, err
}

// ApplyWithTrace is Apply that also returns the execution trace.
// The context is passed to lifecycle hooks only; enforce deadlines around
// the call, as pkg/runner does.
func (e *Engine) ApplyWithTrace(ctx context.Context, text, rules string) (string, *domain.ExecutionTrace, error) {
	tokens, err := e.Parse(rules)
	if err != nil {
		e.logger.Debug("rule string rejected", "kind", domain.Kind(err), "err", err)
		return "", nil, err
	}
	return e.Execute(ctx, text, tokens)
}

// Parse validates the rule string prefix, parses it and validates the tokens.
// Only the slash and flag forms, plus Git Bash path artifacts of the slash
// form, are accepted here.
func (e *Engine) Parse(rules string) ([]domain.RuleToken, error) {
	s := strings.TrimSpace(rules)
	switch {
	case s == "":
		return nil, &domain.ParseError{
			Raw:         rules,
			Reason:      "empty rule string",
			Err:         domain.ErrEmptyRuleString,
			StepContext: domain.StepContext{Index: -1},
		}
	case !strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "-") && !parser.IsWindowsGitPath(s):
		return nil, &domain.ParseError{
			Raw:         rules,
			Reason:      domain.ErrUnrecognizedPrefix.Error(),
			Err:         domain.ErrUnrecognizedPrefix,
			StepContext: domain.StepContext{Index: -1},
		}
	}
	return e.parser.Compile(s)
}

// Execute runs already parsed tokens against text.
func (e *Engine) Execute(ctx context.Context, text string, tokens []domain.RuleToken) (string, *domain.ExecutionTrace, error) {
	out, trace, err := e.orchestrator.Execute(ctx, text, tokens)
	if err != nil {
		e.logger.Debug("pipeline failed", "kind", domain.Kind(err), "rule", domain.RuleOf(err), "err", err)
		return "", nil, err
	}
	return out, trace, nil
}

// Rules returns every registered rule keyed by name.
func (e *Engine) Rules() map[string]domain.TransformationRule {
	return e.registry.Rules()
}

// RuleNames returns the registered rule names in sorted order.
func (e *Engine) RuleNames() []string {
	return e.registry.Names()
}

// Rule looks up one rule's metadata.
func (e *Engine) Rule(name string) (domain.TransformationRule, bool) {
	return e.registry.Rule(name)
}

// Strategies returns the registered strategies in registration order.
func (e *Engine) Strategies() []ports.Strategy {
	return e.registry.Strategies()
}
