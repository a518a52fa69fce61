package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONHandler implements IOHandler for JSON-lines: one Request object in,
// one Response object out.
type JSONHandler struct {
	Encoder *json.Encoder
	Decoder *json.Decoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Encoder: enc,
		Decoder: json.NewDecoder(r),
	}
}

func (h *JSONHandler) Read(ctx context.Context) (Request, error) {
	if err := ctx.Err(); err != nil {
		return Request{}, err
	}
	var req Request
	if err := h.Decoder.Decode(&req); err != nil {
		if err == io.EOF {
			return Request{}, err
		}
		return Request{}, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}

func (h *JSONHandler) Write(ctx context.Context, resp Response) error {
	return h.Encoder.Encode(resp)
}
