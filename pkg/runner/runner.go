package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// ErrTimeout is returned when a pipeline run exceeds the configured timeout.
var ErrTimeout = errors.New("pipeline timed out")

// Pipeline is the part of textkit.Engine the runner depends on.
type Pipeline interface {
	Parse(rules string) ([]domain.RuleToken, error)
	Execute(ctx context.Context, text string, tokens []domain.RuleToken) (string, *domain.ExecutionTrace, error)
	Rule(name string) (domain.TransformationRule, bool)
}

// Result is the outcome of one item of a batch.
type Result struct {
	Index  int
	Output string
	Trace  *domain.ExecutionTrace
	Cached bool
	Err    error
}

// Runner applies a pipeline to many inputs.
// It is safe for concurrent use.
type Runner struct {
	pipeline    Pipeline
	workers     int
	timeout     time.Duration
	cache       ports.ResultCache
	cacheTTL    time.Duration
	maxInput    int
	interceptor Interceptor
	logger      *slog.Logger
}

// NewRunner creates a Runner around pipeline. The input size limit defaults
// to MaxInputSize().
func NewRunner(pipeline Pipeline, opts ...Option) *Runner {
	r := &Runner{
		pipeline: pipeline,
		workers:  DefaultWorkers,
		maxInput: MaxInputSize(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compile parses rules and runs the interceptor over the result.
func (r *Runner) Compile(ctx context.Context, rules string) ([]domain.RuleToken, error) {
	tokens, err := r.pipeline.Parse(rules)
	if err != nil {
		return nil, err
	}
	if r.interceptor != nil {
		if err := r.interceptor(ctx, tokens); err != nil {
			return nil, err
		}
	}
	return tokens, nil
}

// Apply runs rules against a single text.
func (r *Runner) Apply(ctx context.Context, text, rules string) (Result, error) {
	tokens, err := r.Compile(ctx, rules)
	if err != nil {
		return Result{}, err
	}
	res := r.apply(ctx, 0, text, tokens)
	return res, res.Err
}

// Run applies rules to every text with at most the configured number of
// workers. The rule string is parsed once; a parse failure fails the whole
// batch. Item failures are reported in their Result and do not stop the
// others. Results keep the order of texts.
func (r *Runner) Run(ctx context.Context, texts []string, rules string) ([]Result, error) {
	tokens, err := r.Compile(ctx, rules)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(texts))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, text := range texts {
		g.Go(func() error {
			results[i] = r.apply(ctx, i, text, tokens)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.logger.Debug("batch done", "items", len(texts), "failed", failed)
	return results, ctx.Err()
}

func (r *Runner) apply(ctx context.Context, index int, text string, tokens []domain.RuleToken) Result {
	res := Result{Index: index}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if err := CheckInputSize(text, r.maxInput); err != nil {
		res.Err = err
		return res
	}

	cache := r.cacheFor(tokens)
	key := CacheKey(text, tokens)
	if cache != nil {
		out, err := cache.Get(ctx, key)
		switch {
		case err == nil:
			res.Output, res.Cached = out, true
			res.Trace = cachedTrace(text, out, tokens)
			return res
		case !errors.Is(err, domain.ErrCacheMiss):
			r.logger.Warn("cache read failed", "err", err)
		}
	}

	res.Output, res.Trace, res.Err = r.execute(ctx, text, tokens)
	if res.Err == nil && cache != nil {
		if err := cache.Set(ctx, key, res.Output, r.cacheTTL); err != nil {
			r.logger.Warn("cache write failed", "err", err)
		}
	}
	return res
}

// cacheFor returns the result cache, or nil when a rule of the chain must
// not be cached.
func (r *Runner) cacheFor(tokens []domain.RuleToken) ports.ResultCache {
	if r.cache == nil {
		return nil
	}
	for _, tok := range tokens {
		if rule, ok := r.pipeline.Rule(tok.Name); ok && rule.NoCache {
			return nil
		}
	}
	return r.cache
}

// cachedTrace describes a cache hit: the rules the stored output went
// through, with no timings.
func cachedTrace(in, out string, tokens []domain.RuleToken) *domain.ExecutionTrace {
	applied := make([]string, len(tokens))
	for i, tok := range tokens {
		applied[i] = tok.Name
	}
	return &domain.ExecutionTrace{
		Applied:   applied,
		InputLen:  utf8.RuneCountInString(in),
		OutputLen: utf8.RuneCountInString(out),
	}
}

type outcome struct {
	out   string
	trace *domain.ExecutionTrace
	err   error
}

// execute bounds a run by the timeout and by ctx. A run that is abandoned
// keeps going in the background until the strategy returns.
func (r *Runner) execute(ctx context.Context, text string, tokens []domain.RuleToken) (string, *domain.ExecutionTrace, error) {
	if r.timeout <= 0 && ctx.Done() == nil {
		return r.pipeline.Execute(ctx, text, tokens)
	}

	var cancel context.CancelFunc = func() {}
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
	}
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		out, trace, err := r.pipeline.Execute(ctx, text, tokens)
		done <- outcome{out, trace, err}
	}()

	select {
	case o := <-done:
		return o.out, o.trace, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && r.timeout > 0 {
			return "", nil, fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
		}
		return "", nil, ctx.Err()
	}
}
