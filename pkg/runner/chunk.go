package runner

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the chunk size used by ApplyChunked.
const DefaultChunkSize = 64 * 1024

var breakPoints = []string{"\n\n", "\n", ". ", "? ", "! ", " "}

// Chunk splits text into pieces of at most size bytes. A piece ends at the
// best break point in its last 30%, preferring paragraph, line, sentence and
// word boundaries in that order, and never splits a UTF-8 sequence.
// Concatenating the pieces yields text.
func Chunk(text string, size int) []string {
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	var chunks []string
	pos := 0
	for pos < len(text) {
		end := min(pos+size, len(text))
		if end < len(text) {
			end = bestBreak(text, pos, end, size)
		}
		chunks = append(chunks, text[pos:end])
		pos = end
	}
	return chunks
}

func bestBreak(text string, pos, end, size int) int {
	window := text[pos:end]
	floor := size * 7 / 10
	for _, bp := range breakPoints {
		if i := strings.LastIndex(window, bp); i > floor {
			return pos + i + len(bp)
		}
	}
	// Back off to a rune boundary.
	for end > pos+1 && !isRuneStart(text[end]) {
		end--
	}
	return end
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// ApplyChunked splits a large text with Chunk, runs rules on the pieces
// concurrently and joins the results in order. It only suits rules that act
// locally (case, trimming per line, replacements without line spans); chains
// such as json need the whole text and should use Apply.
func (r *Runner) ApplyChunked(ctx context.Context, text, rules string, size int) (string, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if err := CheckInputSize(text, r.maxInput); err != nil {
		return "", err
	}
	tokens, err := r.Compile(ctx, rules)
	if err != nil {
		return "", err
	}

	chunks := Chunk(text, size)
	outputs := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			out, _, err := r.execute(gctx, chunk, tokens)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	r.logger.Debug("chunked run done", "chunks", len(chunks), "size", size)
	return strings.Join(outputs, ""), nil
}
