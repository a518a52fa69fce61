package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/aretw0/textkit"
	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/observability"
	"github.com/aretw0/textkit/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultMaxBatch bounds the number of texts accepted by POST /v1/batch.
const DefaultMaxBatch = 1000

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Transformer is the runner surface the API drives.
type Transformer interface {
	Apply(ctx context.Context, text, rules string) (runner.Result, error)
	Run(ctx context.Context, texts []string, rules string) ([]runner.Result, error)
}

// Catalog lists the rules a backend supports.
type Catalog interface {
	Rules() map[string]domain.TransformationRule
}

// Backend pairs a Transformer with the Catalog describing it. A Server
// holds one Backend at a time and can swap it while serving.
type Backend struct {
	Transformer Transformer
	Catalog     Catalog
}

// TransformRequest is the body of POST /v1/transform.
type TransformRequest struct {
	Text  string `json:"text"`
	Rules string `json:"rules"`
}

// TransformResponse is the body returned by POST /v1/transform.
type TransformResponse struct {
	RequestID string                 `json:"request_id"`
	Output    string                 `json:"output"`
	Applied   []string               `json:"applied"`
	Cached    bool                   `json:"cached,omitempty"`
	Trace     *domain.ExecutionTrace `json:"trace,omitempty"`
}

// BatchRequest is the body of POST /v1/batch.
type BatchRequest struct {
	Texts []string `json:"texts"`
	Rules string   `json:"rules"`
}

// BatchItem is the outcome of one text of a batch.
type BatchItem struct {
	Index  int               `json:"index"`
	Output string            `json:"output"`
	Cached bool              `json:"cached,omitempty"`
	Error  *runner.ErrorInfo `json:"error,omitempty"`
}

// BatchResponse is the body returned by POST /v1/batch.
type BatchResponse struct {
	RequestID string      `json:"request_id"`
	Results   []BatchItem `json:"results"`
	Failed    int         `json:"failed"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	RequestID string            `json:"request_id"`
	Error     *runner.ErrorInfo `json:"error"`
}

// Server exposes a Backend over HTTP.
type Server struct {
	backend  atomic.Pointer[Backend]
	metrics  *observability.Metrics
	maxBatch int
	maxInput int
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves /metrics from m and records failures that never reach
// the engine's hooks.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithMaxBatch limits the number of texts per batch request.
func WithMaxBatch(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBatch = n
		}
	}
}

// WithMaxInputSize bounds request bodies: one text of n bytes for
// /v1/transform, maxBatch of them for /v1/batch.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxInput = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server around backend.
func NewServer(backend Backend, opts ...Option) *Server {
	s := &Server{
		maxBatch: DefaultMaxBatch,
		maxInput: runner.MaxInputSize(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.backend.Store(&backend)
	return s
}

// Swap replaces the backend. Requests already running finish on the old one.
func (s *Server) Swap(backend Backend) {
	s.backend.Store(&backend)
	s.logger.Info("backend swapped", "rules", len(backend.Catalog.Rules()))
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/transform", s.transform)
		r.Post("/batch", s.batch)
		r.Get("/rules", s.rules)
		r.Get("/rules/{name}", s.rule)
	})
	return r
}

type ctxKey struct{}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the ID assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(textkit.Version),
	})
}

func (s *Server) transform(w http.ResponseWriter, r *http.Request) {
	var body TransformRequest
	if !s.decode(w, r, bodyLimit(s.maxInput, 1), &body) {
		return
	}

	clean, err := runner.SanitizeRules(body.Rules)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.backend.Load().Transformer.Apply(r.Context(), body.Text, clean)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := TransformResponse{
		RequestID: RequestID(r.Context()),
		Output:    res.Output,
		Applied:   []string{},
		Cached:    res.Cached,
	}
	if res.Trace != nil {
		resp.Applied = res.Trace.Applied
		if r.URL.Query().Get("trace") == "true" {
			resp.Trace = res.Trace
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var body BatchRequest
	if !s.decode(w, r, bodyLimit(s.maxInput, s.maxBatch), &body) {
		return
	}
	if len(body.Texts) > s.maxBatch {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, &runner.ErrorInfo{
			Kind:    "input_too_large",
			Message: "too many texts in batch",
			Applied: []string{},
		})
		return
	}

	clean, err := runner.SanitizeRules(body.Rules)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	results, err := s.backend.Load().Transformer.Run(r.Context(), body.Texts, clean)
	if results == nil && err != nil {
		s.fail(w, r, err)
		return
	}

	resp := BatchResponse{
		RequestID: RequestID(r.Context()),
		Results:   make([]BatchItem, len(results)),
	}
	for i, res := range results {
		resp.Results[i] = BatchItem{Index: res.Index, Output: res.Output, Cached: res.Cached}
		if res.Err != nil {
			s.record(res.Err)
			resp.Results[i].Error = runner.NewErrorInfo(res.Err)
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) rules(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	all := s.backend.Load().Catalog.Rules()

	out := make([]domain.TransformationRule, 0, len(all))
	for _, rule := range all {
		if search == "" ||
			strings.Contains(strings.ToLower(rule.Name), search) ||
			strings.Contains(strings.ToLower(rule.Description), search) {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) rule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rule, ok := s.backend.Load().Catalog.Rules()[name]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, &runner.ErrorInfo{
			Kind:    "unknown_rule",
			Message: "unknown rule " + name,
			Rule:    name,
			Applied: []string{},
		})
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// fail maps a pipeline error to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.record(err)
	info := runner.NewErrorInfo(err)
	if errors.Is(err, context.Canceled) {
		s.logger.Debug("request cancelled", "request_id", RequestID(r.Context()))
	}
	s.writeError(w, r, statusFor(info.Kind), info)
}

// bodySlack covers the JSON envelope around the texts of a request.
const bodySlack = 4 << 10

// bodyLimit allows n texts of size bytes each. Escaped JSON strings can take
// up to twice the bytes of the text they decode to.
func bodyLimit(size, n int) int64 {
	return int64(size)*int64(n)*2 + bodySlack
}

// decode reads a JSON body of at most limit bytes into v. It writes the
// error response itself and reports whether the handler should go on.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.record(runner.ErrInputTooLarge)
		s.writeError(w, r, http.StatusRequestEntityTooLarge, &runner.ErrorInfo{
			Kind:    "input_too_large",
			Message: "request body exceeds the input size limit",
			Applied: []string{},
		})
		return false
	}
	s.badRequest(w, r, "invalid request body: "+err.Error())
	return false
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.writeError(w, r, http.StatusBadRequest, &runner.ErrorInfo{
		Kind:    "bad_request",
		Message: msg,
		Applied: []string{},
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, info *runner.ErrorInfo) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		"request_id", RequestID(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"kind", info.Kind,
		"rule", info.Rule,
		"step", info.Step,
	)
	writeJSON(w, status, ErrorResponse{RequestID: RequestID(r.Context()), Error: info})
}

// record counts failures the orchestrator hooks never see.
func (s *Server) record(err error) {
	if s.metrics == nil {
		return
	}
	switch kind := runner.Kind(err); kind {
	case "unknown_rule", "arity", "strategy":
	default:
		s.metrics.RecordFailure(kind)
	}
}

func statusFor(kind string) int {
	switch kind {
	case "parse", "unknown_rule", "arity":
		return http.StatusBadRequest
	case "denied":
		return http.StatusForbidden
	case "input_too_large":
		return http.StatusRequestEntityTooLarge
	case "strategy":
		return http.StatusUnprocessableEntity
	case "timeout":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
