package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/textkit/pkg/domain"
)

// LogHooks writes one structured record per pipeline event. Rule starts and
// successes are logged at debug; failures at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRuleStart: func(ctx context.Context, e *domain.RuleEvent) {
			logger.DebugContext(ctx, "rule_start", "rule", e.Rule, "index", e.Index)
		},
		OnRuleApplied: func(ctx context.Context, e *domain.RuleEvent) {
			logger.DebugContext(ctx, "rule_applied", "rule", e.Rule, "index", e.Index, "elapsed", e.Elapsed)
		},
		OnRuleFailed: func(ctx context.Context, e *domain.RuleEvent) {
			logger.WarnContext(ctx, "rule_failed",
				"rule", e.Rule,
				"index", e.Index,
				"kind", domain.Kind(e.Err),
				"err", e.Err,
			)
		},
		OnPipelineDone: func(ctx context.Context, e *domain.PipelineEvent) {
			if e.Err != nil || e.Trace == nil {
				return
			}
			logger.DebugContext(ctx, "pipeline_done",
				"applied", e.Trace.Applied,
				"input_len", e.Trace.InputLen,
				"output_len", e.Trace.OutputLen,
				"total", e.Trace.Total,
			)
		},
	}
}
