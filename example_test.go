package textkit_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/textkit"
	"github.com/aretw0/textkit/pkg/domain"
)

// ExampleEngine_Apply shows a slash chain and a rule with quoted arguments.
func ExampleEngine_Apply() {
	eng, err := textkit.New()
	if err != nil {
		log.Fatal(err)
	}

	out, err := eng.Apply("  Hello World  ", "/t/l")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)

	out, err = eng.Apply("hello", "/r 'l' 'L'")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)

	// Output:
	// hello world
	// heLLo
}

// ExampleEngine_Apply_failure shows how far a failing pipeline got.
func ExampleEngine_Apply_failure() {
	eng, err := textkit.New()
	if err != nil {
		log.Fatal(err)
	}

	_, err = eng.Apply("text", "/t/nope/u")

	var unknown *domain.UnknownRuleError
	if errors.As(err, &unknown) {
		step, _ := domain.ProgressOf(err)
		fmt.Printf("unknown rule %q at %s\n", unknown.Name, step.Describe())
	}

	// Output:
	// unknown rule "nope" at step 2 of 3, after t
}
