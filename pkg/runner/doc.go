/*
Package runner drives a textkit pipeline over many inputs.

A single pipeline run is synchronous and cannot be interrupted. The runner adds what callers need
around it: bounded fan-out over a batch, a per-item timeout, a result cache, and streaming over
line-oriented or JSON-lines IO.

# Key Components

  - Runner: applies one rule string to a batch, a single text, chunks of a large text, or a stream.
  - IOHandler: decouples how requests arrive and results leave (TextHandler, JSONHandler).
  - Interceptor: a policy hook that can veto a parsed rule chain before it runs.
  - SanitizeRules / CheckInputSize: guards for untrusted rule strings and input sizes.

# Usage

	r := runner.NewRunner(engine,
		runner.WithWorkers(8),
		runner.WithTimeout(2*time.Second),
		runner.WithCache(memory.NewCache(1024), time.Minute),
	)

	results, err := r.Run(ctx, texts, "/t/l")
	if err != nil {
		log.Fatal(err)
	}
*/
package runner
