package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

const replHelp = `Lines starting with / or - are rule strings applied to the buffer.
Commands:
  :show      print the buffer
  :refresh   load the buffer from the clipboard
  :reload    rebuild the engine from the configuration
  :status    show buffer and engine status
  :clear     empty the buffer
  :copy      copy the buffer to the clipboard
  :commands  list available rules
  :help      show this help
  :quit      leave (also :exit)
`

// REPL is an interactive session that applies rule strings to a text
// buffer.
type REPL struct {
	stack     *Stack
	reload    func() (*Stack, error)
	clipboard Clipboard
	out       io.Writer

	buffer  string
	applied []string

	ok   *color.Color
	fail *color.Color
	info *color.Color
}

// NewREPL creates a session over stack. reload rebuilds the stack for the
// :reload command; clip may be nil when no clipboard is available.
func NewREPL(stack *Stack, reload func() (*Stack, error), clip Clipboard, out io.Writer) *REPL {
	return &REPL{
		stack:     stack,
		reload:    reload,
		clipboard: clip,
		out:       out,
		ok:        color.New(color.FgGreen),
		fail:      color.New(color.FgRed),
		info:      color.New(color.FgCyan),
	}
}

// SetBuffer replaces the buffer.
func (r *REPL) SetBuffer(text string) {
	r.buffer = text
}

// Buffer returns the current buffer.
func (r *REPL) Buffer() string {
	return r.buffer
}

// Stack returns the stack currently in use.
func (r *REPL) Stack() *Stack {
	return r.stack
}

// Run reads lines until :quit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "textkit> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	r.info.Fprintf(r.out, "ℹ buffer holds %d characters; :help lists commands\n", utf8.RuneCountInString(r.buffer))

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if !r.Handle(ctx, line) {
			break
		}
	}
	r.info.Fprintln(r.out, "ℹ Goodbye!")
	return nil
}

// Handle executes one line. It returns false when the session should end.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return true
	case strings.HasPrefix(line, "/") || strings.HasPrefix(line, "-"):
		r.apply(ctx, line)
		return true
	case strings.HasPrefix(line, ":"):
		return r.command(strings.ToLower(strings.TrimPrefix(line, ":")))
	default:
		r.fail.Fprintf(r.out, "✗ Error: %q is neither a rule string (/ or -) nor a command (:help)\n", line)
		return true
	}
}

func (r *REPL) apply(ctx context.Context, rules string) {
	res, err := r.stack.Runner.Apply(ctx, r.buffer, rules)
	if err != nil {
		r.fail.Fprintf(r.out, "✗ Error: %v\n", err)
		if step, ok := domain.ProgressOf(err); ok && step.Index >= 0 {
			r.fail.Fprintf(r.out, "  stopped at %s; buffer unchanged\n", step.Describe())
		}
		return
	}

	r.buffer = res.Output
	r.applied = append(r.applied, rules)
	fmt.Fprintln(r.out, res.Output)
	if res.Trace != nil {
		r.ok.Fprintf(r.out, "✓ applied %s\n", strings.Join(res.Trace.Applied, ", "))
	}
}

func (r *REPL) command(name string) bool {
	switch name {
	case "quit", "exit", "q":
		return false
	case "help", "h", "?":
		fmt.Fprint(r.out, replHelp)
	case "show":
		fmt.Fprintln(r.out, r.buffer)
	case "clear":
		r.buffer = ""
		r.ok.Fprintln(r.out, "✓ buffer cleared")
	case "refresh":
		if r.clipboard == nil {
			r.fail.Fprintln(r.out, "✗ Error: clipboard unavailable")
			break
		}
		text, err := r.clipboard.ReadAll()
		if err != nil {
			r.fail.Fprintf(r.out, "✗ Error: %v\n", err)
			break
		}
		r.buffer = text
		r.ok.Fprintf(r.out, "✓ loaded %d characters from the clipboard\n", utf8.RuneCountInString(text))
	case "copy":
		if r.clipboard == nil {
			r.fail.Fprintln(r.out, "✗ Error: clipboard unavailable")
			break
		}
		if err := r.clipboard.WriteAll(r.buffer); err != nil {
			r.fail.Fprintf(r.out, "✗ Error: %v\n", err)
			break
		}
		r.ok.Fprintln(r.out, "✓ buffer copied to the clipboard")
	case "reload":
		if r.reload == nil {
			r.fail.Fprintln(r.out, "✗ Error: reload unavailable")
			break
		}
		next, err := r.reload()
		if err != nil {
			r.fail.Fprintf(r.out, "✗ Error: reload failed: %v\n", err)
			break
		}
		_ = r.stack.Close()
		r.stack = next
		r.ok.Fprintf(r.out, "✓ engine reloaded with %d rules\n", len(next.Engine.RuleNames()))
	case "status":
		r.info.Fprintf(r.out, "ℹ buffer: %d characters, %d lines\n",
			utf8.RuneCountInString(r.buffer), strings.Count(r.buffer, "\n")+1)
		r.info.Fprintf(r.out, "ℹ rules available: %d, rule strings applied: %d\n",
			len(r.stack.Engine.RuleNames()), len(r.applied))
		if n := len(r.applied); n > 0 {
			r.info.Fprintf(r.out, "ℹ last: %s\n", r.applied[n-1])
		}
	case "commands", "rules":
		r.printRules()
	default:
		r.fail.Fprintf(r.out, "✗ Error: unknown command :%s (try :help)\n", name)
	}
	return true
}

func (r *REPL) printRules() {
	rules := r.stack.Engine.Rules()
	byCategory := make(map[domain.RuleCategory][]string)
	for name, rule := range rules {
		byCategory[rule.Category] = append(byCategory[rule.Category], name)
	}
	for _, cat := range domain.Categories() {
		names := byCategory[cat]
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		fmt.Fprintf(r.out, "%-11s %s\n", r.info.Sprint(cat.String()), strings.Join(names, " "))
	}
}
