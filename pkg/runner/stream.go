package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/textkit/pkg/domain"
)

// Serve reads requests from h until EOF and answers each in order.
// Requests without rules use defaultRules; its compiled form is reused.
// Per-request failures are written as responses; only IO errors and
// context cancellation end the loop.
func (r *Runner) Serve(ctx context.Context, h IOHandler, defaultRules string) error {
	var defaults []domain.RuleToken
	if defaultRules != "" {
		tokens, err := r.Compile(ctx, defaultRules)
		if err != nil {
			return err
		}
		defaults = tokens
	}

	for {
		req, err := h.Read(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		resp := r.serveOne(ctx, req, defaults)
		if err := h.Write(ctx, resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

func (r *Runner) serveOne(ctx context.Context, req Request, defaults []domain.RuleToken) Response {
	resp := Response{ID: req.ID}

	tokens := defaults
	if req.Rules != "" {
		rules, err := SanitizeRules(req.Rules)
		if err == nil {
			tokens, err = r.Compile(ctx, rules)
		}
		if err != nil {
			resp.Error = NewErrorInfo(err)
			return resp
		}
	}
	if tokens == nil {
		resp.Error = NewErrorInfo(&domain.ParseError{
			Reason:      "no rules given",
			Err:         domain.ErrEmptyRuleString,
			StepContext: domain.StepContext{Index: -1},
		})
		return resp
	}

	res := r.apply(ctx, 0, req.Text, tokens)
	if res.Err != nil {
		resp.Error = NewErrorInfo(res.Err)
		return resp
	}
	resp.Output = res.Output
	resp.Cached = res.Cached
	if res.Trace != nil {
		resp.Applied = res.Trace.Applied
	}
	return resp
}

// Lines applies rules to every line of in and writes one result line per
// input line to out. Failed lines produce an empty line and a message on errs.
func (r *Runner) Lines(ctx context.Context, in io.Reader, out, errs io.Writer, rules string) error {
	h := NewTextHandler(in, out)
	h.Errors = errs
	return r.Serve(ctx, h, rules)
}
