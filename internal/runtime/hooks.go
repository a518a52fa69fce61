package runtime

import (
	"context"
	"slices"
	"time"

	"github.com/aretw0/textkit/pkg/domain"
)

func (o *Orchestrator) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: o.now(), Type: t}
}

func (o *Orchestrator) emitRuleStart(ctx context.Context, tok domain.RuleToken, index int) {
	if o.hooks.OnRuleStart == nil {
		return
	}
	o.hooks.OnRuleStart(ctx, &domain.RuleEvent{
		EventBase: o.base(domain.EventRuleStart),
		Index:     index,
		Rule:      tok.Name,
		Args:      slices.Clone(tok.Args),
	})
}

func (o *Orchestrator) emitRuleApplied(ctx context.Context, tok domain.RuleToken, index int, elapsed time.Duration) {
	if o.hooks.OnRuleApplied == nil {
		return
	}
	o.hooks.OnRuleApplied(ctx, &domain.RuleEvent{
		EventBase: o.base(domain.EventRuleApplied),
		Index:     index,
		Rule:      tok.Name,
		Args:      slices.Clone(tok.Args),
		Elapsed:   elapsed,
	})
}

func (o *Orchestrator) emitRuleFailed(ctx context.Context, tok domain.RuleToken, index int, elapsed time.Duration, err error) {
	if o.hooks.OnRuleFailed == nil {
		return
	}
	o.hooks.OnRuleFailed(ctx, &domain.RuleEvent{
		EventBase: o.base(domain.EventRuleFailed),
		Index:     index,
		Rule:      tok.Name,
		Args:      slices.Clone(tok.Args),
		Elapsed:   elapsed,
		Err:       err,
	})
}

func (o *Orchestrator) emitPipelineDone(ctx context.Context, trace *domain.ExecutionTrace, err error) {
	if o.hooks.OnPipelineDone == nil {
		return
	}
	o.hooks.OnPipelineDone(ctx, &domain.PipelineEvent{
		EventBase: o.base(domain.EventPipelineDone),
		Trace:     trace,
		Err:       err,
	})
}
