/*
Package textkit applies chains of text transformations described by a compact rule string.

A rule string such as "/t/l" or "/r 'old' 'new'" is parsed into an ordered list of named rules with
arguments. Each name is resolved against a registry of strategies and applied to the text strictly in order.

# Concept

The Engine separates three concerns. The parser knows the mini-language and nothing about rules. The
registry maps rule names to strategies (families of related rules such as case conversion or encodings).
The orchestrator runs the parsed rules and records what was applied, so a failure can say exactly how far
the pipeline got.

# Rule Syntax

  - Slash chain: "/t/l/u" applies trim, lower, then upper.
  - Quoted arguments: "/r 'l' 'L'" or "/r/'l'/'L'" replaces every "l" with "L".
  - Flag: "-u" applies a single rule.
  - Git Bash artifacts such as "C:/Program Files/Git/u" are read back as "/u".

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/textkit"
	)

	func main() {
		eng, err := textkit.New()
		if err != nil {
			log.Fatal(err)
		}

		out, err := eng.Apply("  Hello World  ", "/t/l")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out) // hello world
	}

# Errors

Failures are typed values from pkg/domain: *ParseError, *UnknownRuleError, *ArityError and
*StrategyError. Use domain.ProgressOf to recover the step index and the rules applied before the failure.

# Concurrency

Registration happens once inside New. After that an Engine is read-only and may be shared by any number
of goroutines. A single Apply call cannot be interrupted; bound it from the outside (see pkg/runner).
*/
package textkit
