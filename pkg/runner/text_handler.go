package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// TextHandler treats every input line as one text. Results are written one
// per line; failures go to Errors (if set) prefixed with the line number.
type TextHandler struct {
	Reader *bufio.Reader
	Writer io.Writer
	Errors io.Writer

	line int
}

// NewTextHandler creates a handler for line-oriented IO.
func NewTextHandler(r io.Reader, w io.Writer) *TextHandler {
	return &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
}

func (h *TextHandler) Read(ctx context.Context) (Request, error) {
	if err := ctx.Err(); err != nil {
		return Request{}, err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return Request{}, err
	}
	h.line++
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return Request{ID: fmt.Sprint(h.line), Text: text}, nil
}

func (h *TextHandler) Write(ctx context.Context, resp Response) error {
	if resp.Error != nil {
		if h.Errors != nil {
			fmt.Fprintf(h.Errors, "line %s: %s\n", resp.ID, resp.Error.Message)
		}
		_, err := fmt.Fprintln(h.Writer)
		return err
	}
	_, err := fmt.Fprintln(h.Writer, resp.Output)
	return err
}
