package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/textkit"
	"github.com/aretw0/textkit/internal/presentation/graph"
	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RulesURI is the resource listing every available rule.
const RulesURI = "textkit://rules"

// Engine is what the MCP server reads: parsing for explain and the catalog
// for listing.
type Engine interface {
	Parse(rules string) ([]domain.RuleToken, error)
	Rules() map[string]domain.TransformationRule
}

// Transformer runs a rule string against one text.
type Transformer interface {
	Apply(ctx context.Context, text, rules string) (runner.Result, error)
}

// TransformArgs are the arguments of the transform tool.
type TransformArgs struct {
	Text  string `json:"text"`
	Rules string `json:"rules"`
}

// TransformResult is the structured output of the transform tool.
type TransformResult struct {
	Output  string   `json:"output" jsonschema_description:"The transformed text"`
	Applied []string `json:"applied" jsonschema_description:"Rules applied, in order"`
}

// ListRulesArgs are the arguments of the list_rules tool.
type ListRulesArgs struct {
	Search string `json:"search,omitempty"`
}

// ListRulesResult is the structured output of the list_rules tool.
type ListRulesResult struct {
	Rules []domain.TransformationRule `json:"rules" jsonschema_description:"Available rules sorted by name"`
}

// ExplainArgs are the arguments of the explain tool.
type ExplainArgs struct {
	Rules string `json:"rules"`
}

type backend struct {
	engine      Engine
	transformer Transformer
}

// Server exposes textkit as an MCP server.
type Server struct {
	current   atomic.Pointer[backend]
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, transformer Transformer, opts ...Option) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("textkit-mcp", strings.TrimSpace(textkit.Version)),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&backend{engine: engine, transformer: transformer})
	s.registerTools()
	s.registerResources()
	return s
}

// Swap replaces the engine and transformer used by subsequent calls.
func (s *Server) Swap(engine Engine, transformer Transformer) {
	s.current.Store(&backend{engine: engine, transformer: transformer})
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	transformTool := mcp.NewTool("transform",
		mcp.WithDescription("Apply a rule string such as /t/l/r 'old' 'new' to a text. Rules run in order and stop at the first failure."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Input text")),
		mcp.WithString("rules", mcp.Required(), mcp.Description("Rule string starting with '/' or '-'")),
		mcp.WithOutputSchema[TransformResult](),
	)
	s.mcpServer.AddTool(transformTool, mcp.NewStructuredToolHandler(s.handleTransform))

	listTool := mcp.NewTool("list_rules",
		mcp.WithDescription("List the available transformation rules."),
		mcp.WithString("search", mcp.Description("Case-insensitive filter on name and description")),
		mcp.WithOutputSchema[ListRulesResult](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListRules))

	s.mcpServer.AddTool(mcp.NewTool("explain",
		mcp.WithDescription("Render a rule string as a Mermaid flowchart of its steps."),
		mcp.WithString("rules", mcp.Required(), mcp.Description("Rule string to explain")),
	), s.handleExplain)
}

func (s *Server) handleTransform(ctx context.Context, _ mcp.CallToolRequest, args TransformArgs) (TransformResult, error) {
	clean, err := runner.SanitizeRules(args.Rules)
	if err != nil {
		return TransformResult{}, err
	}

	res, err := s.current.Load().transformer.Apply(ctx, args.Text, clean)
	if err != nil {
		s.logger.Warn("MCP transform failed", "kind", runner.Kind(err), "rule", domain.RuleOf(err), "err", err)
		return TransformResult{}, describe(err)
	}

	out := TransformResult{Output: res.Output, Applied: []string{}}
	if res.Trace != nil {
		out.Applied = res.Trace.Applied
	}
	return out, nil
}

func (s *Server) handleListRules(_ context.Context, _ mcp.CallToolRequest, args ListRulesArgs) (ListRulesResult, error) {
	return ListRulesResult{Rules: filterRules(s.current.Load().engine.Rules(), args.Search)}, nil
}

func (s *Server) handleExplain(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules, err := request.RequireString("rules")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b := s.current.Load()
	tokens, err := b.engine.Parse(rules)
	if err != nil {
		return mcp.NewToolResultError(describe(err).Error()), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(tokens, b.engine.Rules(), nil)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(RulesURI, "Available Rules",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(filterRules(s.current.Load().engine.Rules(), ""))
		if err != nil {
			return nil, fmt.Errorf("failed to encode rules: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RulesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// describe appends the pipeline position to a failure so the client can tell
// how far the chain got.
func describe(err error) error {
	step, ok := domain.ProgressOf(err)
	if !ok || step.Index < 0 {
		return err
	}
	return fmt.Errorf("%w (%s)", err, step.Describe())
}

func filterRules(rules map[string]domain.TransformationRule, search string) []domain.TransformationRule {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.TransformationRule, 0, len(rules))
	for _, r := range rules {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
