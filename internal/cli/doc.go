/*
Package cli holds the wiring behind the textkit command: building the engine
stack from configuration, resolving input and output, and the interactive
REPL.

# Key Components

  - Build: config.Config to engine, runner, result cache and key store.
  - ReadInput / WriteOutput: --text, --file, piped stdin or clipboard in;
    stdout, file or clipboard out.
  - BuildRuleString / RewriteArgs: command-line arguments to a rule string.
  - Transform: the one-shot default command.
  - REPL: line editing with history over a text buffer.
*/
package cli
