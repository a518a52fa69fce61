/*
Package domain contains the core types of the textkit pipeline.

It defines what a parsed rule string looks like, the metadata each transformer
publishes about its rules, the trace produced by a successful run and the
closed set of errors a run can fail with. The package is kept free of I/O and
third-party dependencies so every other layer can import it.

# Key Entities

  - RuleToken: One parsed operation (name plus positional arguments).
  - TransformationRule: Metadata a strategy declares for each rule it supports.
  - ExecutionTrace: Applied rules, per-rule timings and input/output lengths.
  - ParseError, UnknownRuleError, ArityError, StrategyError: Pipeline failures,
    each carrying the step index and the rules applied before the failure.
  - CollisionError: Raised while building a registry, never during a run.
*/
package domain
