package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/pacer"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/runner"
	"github.com/aretw0/pacer/pkg/session"
	"github.com/aretw0/pacer/pkg/tools"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolChat is the name of the conversational tool.
const ToolChat = "chat"

const toolsResourceURI = "pacer://tools"

var errNoClient = errors.New("no client session in context")

// Dispatcher answers one conversational request.
type Dispatcher interface {
	Handle(ctx context.Context, req domain.Request, history domain.History, signal domain.Signal, sink ports.Sink) domain.Response
}

// ChatArgs are the arguments of the chat tool.
type ChatArgs struct {
	Prompt    string `json:"prompt"`
	Command   string `json:"command,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResult is the structured result of the chat tool.
type ChatResult struct {
	SessionID   string              `json:"sessionId" jsonschema_description:"Session to pass back for the next round"`
	Scenario    string              `json:"scenario" jsonschema_description:"Scenario that answered the request"`
	Markdown    string              `json:"markdown" jsonschema_description:"The response fragments joined as markdown"`
	Suggestions []domain.Suggestion `json:"suggestions" jsonschema_description:"Follow-up actions for the next round"`
	Failed      bool                `json:"failed,omitempty" jsonschema_description:"Indicates the request ended in an error"`
}

type notifyFunc func(ctx context.Context, token mcp.ProgressToken, progress, total float64, message string) error

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server exposes the progress tools and the dispatcher as an MCP server.
type Server struct {
	dispatcher Dispatcher
	sessions   *session.Manager
	tools      *tools.Registry
	mcpServer  *server.MCPServer
	logger     *slog.Logger
	notify     notifyFunc
}

// NewServer creates a new MCP Server instance.
func NewServer(d Dispatcher, sessions *session.Manager, reg *tools.Registry, opts ...Option) (*Server, error) {
	s := &Server{
		dispatcher: d,
		sessions:   sessions,
		tools:      reg,
		mcpServer: server.NewMCPServer("pacer", strings.TrimSpace(pacer.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		notify: sendProgress,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	s.registerResources()
	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx is done.
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

func (s *Server) registerTools() error {
	for _, def := range s.tools.Definitions() {
		schema, err := json.Marshal(def.Schema)
		if err != nil {
			return fmt.Errorf("schema of %s: %w", def.Name, err)
		}
		s.mcpServer.AddTool(mcp.NewToolWithRawSchema(def.Name, def.Description, schema), s.toolHandler(def.Name))
	}

	chatTool := mcp.NewTool(ToolChat,
		mcp.WithDescription("Send a prompt to the progress demo assistant. Pass the returned sessionId back to continue the conversation."),
		mcp.WithString("prompt", mcp.Description("Free text of the request")),
		mcp.WithString("command", mcp.Description("Optional command token, e.g. steps, links or advanced")),
		mcp.WithString("sessionId", mcp.Description("Session to continue (optional)")),
		mcp.WithOutputSchema[ChatResult](),
	)
	s.mcpServer.AddTool(chatTool, mcp.NewStructuredToolHandler(s.handleChat))
	return nil
}

func (s *Server) toolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		token := progressToken(request)

		prepared, err := s.tools.Prepare(name, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.progress(ctx, token, 0, 0, prepared)

		out, err := s.tools.Invoke(ctx, name, tools.Call{
			Args:   args,
			Signal: domain.SignalFromContext(ctx),
			OnProgress: func(p tools.Progress) {
				s.progress(ctx, token, float64(p.Step), float64(p.Total), p.Message)
			},
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest, args ChatArgs) (ChatResult, error) {
	prompt, err := runner.SanitizeInput(args.Prompt)
	if err != nil {
		s.logger.Warn("MCP chat: input rejected", "err", err, "size", len(args.Prompt))
		return ChatResult{}, fmt.Errorf("input rejected: %w", err)
	}
	req := domain.Request{Prompt: prompt, Command: strings.TrimSpace(args.Command)}

	sessionID := args.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	token := progressToken(request)
	var notices float64
	sink := ports.SinkFuncs{
		OnProgress: func(msg string) {
			notices++
			s.progress(ctx, token, notices, 0, msg)
		},
	}

	signal := domain.SignalFromContext(ctx)
	resp, err := s.sessions.Exchange(context.WithoutCancel(ctx), sessionID, req,
		func(ctx context.Context, h domain.History) domain.Response {
			return s.dispatcher.Handle(ctx, req, h, signal, sink)
		})
	if err != nil {
		return ChatResult{}, fmt.Errorf("session %s: %w", sessionID, err)
	}

	suggestions := resp.Suggestions
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	return ChatResult{
		SessionID:   sessionID,
		Scenario:    string(resp.Scenario),
		Markdown:    strings.Join(resp.Result.Fragments, "\n\n"),
		Suggestions: suggestions,
		Failed:      resp.Result.Err != nil,
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(toolsResourceURI, "Progress tool definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(s.tools.Definitions())
		if err != nil {
			return nil, fmt.Errorf("failed to encode tool definitions: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      toolsResourceURI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	})
}

func progressToken(request mcp.CallToolRequest) mcp.ProgressToken {
	if request.Params.Meta == nil {
		return nil
	}
	return request.Params.Meta.ProgressToken
}

// progress reports to the client only when it asked for progress.
func (s *Server) progress(ctx context.Context, token mcp.ProgressToken, progress, total float64, message string) {
	if token == nil {
		return
	}
	if err := s.notify(ctx, token, progress, total, message); err != nil {
		s.logger.Debug("progress notification dropped", "err", err)
	}
}

func sendProgress(ctx context.Context, token mcp.ProgressToken, progress, total float64, message string) error {
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return errNoClient
	}
	params := map[string]any{
		"progressToken": token,
		"progress":      progress,
		"message":       message,
	}
	if total > 0 {
		params["total"] = total
	}
	return srv.SendNotificationToClient(ctx, "notifications/progress", params)
}
