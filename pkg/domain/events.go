package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRuleStart    EventType = "rule_start"
	EventRuleApplied  EventType = "rule_applied"
	EventRuleFailed   EventType = "rule_failed"
	EventPipelineDone EventType = "pipeline_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RuleEvent describes one step of a pipeline run.
type RuleEvent struct {
	EventBase
	Index   int           `json:"index"`
	Rule    string        `json:"rule"`
	Args    []string      `json:"args,omitempty"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
	Err     error         `json:"-"`
}

// PipelineEvent is emitted once a run finishes, successfully or not.
type PipelineEvent struct {
	EventBase
	Trace *ExecutionTrace `json:"trace,omitempty"`
	Err   error           `json:"-"`
}

// LifecycleHooks defines callbacks for pipeline observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnRuleStart    func(context.Context, *RuleEvent)
	OnRuleApplied  func(context.Context, *RuleEvent)
	OnRuleFailed   func(context.Context, *RuleEvent)
	OnPipelineDone func(context.Context, *PipelineEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRuleStart:    chainRule(h.OnRuleStart, other.OnRuleStart),
		OnRuleApplied:  chainRule(h.OnRuleApplied, other.OnRuleApplied),
		OnRuleFailed:   chainRule(h.OnRuleFailed, other.OnRuleFailed),
		OnPipelineDone: chainPipeline(h.OnPipelineDone, other.OnPipelineDone),
	}
}

func chainRule(a, b func(context.Context, *RuleEvent)) func(context.Context, *RuleEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RuleEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainPipeline(a, b func(context.Context, *PipelineEvent)) func(context.Context, *PipelineEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *PipelineEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
