/*
Package observability provides tools for monitoring the textkit pipeline.

It turns lifecycle hooks into Prometheus metrics and structured log records,
and instruments result caches with hit and miss counters.

# Metrics

  - textkit_rules_applied_total{rule}: successful rule applications.
  - textkit_rule_duration_seconds{rule}: time spent in each rule.
  - textkit_pipeline_failures_total{kind}: failed pipelines by error kind.
  - textkit_cache_requests_total{result}: cache lookups, "hit" or "miss".
*/
package observability
