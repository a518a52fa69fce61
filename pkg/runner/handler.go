package runner

import (
	"context"
)

// Request is one unit of streamed work. An empty Rules falls back to the
// rule string given to Serve.
type Request struct {
	ID    string `json:"id,omitempty"`
	Text  string `json:"text"`
	Rules string `json:"rules,omitempty"`
}

// Response is the outcome of a Request.
type Response struct {
	ID      string     `json:"id,omitempty"`
	Output  string     `json:"output"`
	Applied []string   `json:"applied,omitempty"`
	Cached  bool       `json:"cached,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// IOHandler defines how streamed requests are read and responses written.
// This allows switching between plain lines and JSON-lines.
type IOHandler interface {
	// Read returns the next request, or io.EOF when the stream ends.
	Read(ctx context.Context) (Request, error)

	// Write emits the response for the last request read.
	Write(ctx context.Context, resp Response) error
}
