package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/pacer/internal/config"
	"github.com/aretw0/pacer/internal/presentation/tui"
	httpadapter "github.com/aretw0/pacer/pkg/adapters/http"
	"github.com/aretw0/pacer/pkg/adapters/mcp"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/scenario"
	"github.com/aretw0/pacer/pkg/tools"
)

const shutdownTimeout = 5 * time.Second

// progressPrinter prints notices on their own line, dimmed on a terminal.
func progressPrinter(w io.Writer) func(string) {
	style := func(s string) string { return s }
	if tui.IsTerminal(w) {
		style = tui.ProgressStyle(w)
	}
	return func(msg string) {
		fmt.Fprintln(w, style(msg))
	}
}

// ParseToolArgs decodes the --args JSON object of the tool command.
func ParseToolArgs(raw string) (map[string]any, error) {
	args := map[string]any{}
	if raw == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("%w: --args must be a JSON object: %v", domain.ErrInvalidInput, err)
	}
	return args, nil
}

// RunTool invokes one tool, printing its progress and output. Cancelling
// ctx cancels the tool; the partial output is still printed.
func RunTool(ctx context.Context, app *App, name string, args map[string]any, out io.Writer) error {
	reg := app.Engine.Tools()
	prepared, err := reg.Prepare(name, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, prepared)

	progress := progressPrinter(out)
	text, err := reg.Invoke(ctx, name, tools.Call{
		Args:   args,
		Signal: domain.SignalFromContext(ctx),
		OnProgress: func(p tools.Progress) {
			progress(fmt.Sprintf("[%d/%d] %s", p.Step, p.Total, p.Message))
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, text)
	return nil
}

// ListTools prints the registered tools and their descriptions.
func ListTools(app *App, out io.Writer) {
	for _, def := range app.Engine.Tools().Definitions() {
		fmt.Fprintf(out, "%-36s %s\n", def.Name, def.Description)
	}
}

// RunDemo runs a native progress demo, printing its notices.
func RunDemo(ctx context.Context, app *App, name string, out io.Writer) error {
	progress := progressPrinter(out)
	sink := ports.SinkFuncs{
		OnProgress: progress,
		OnMarkdown: func(f string) { fmt.Fprint(out, f) },
	}
	msg, err := app.Engine.RunDemo(name, domain.SignalFromContext(ctx), sink)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg)
	return nil
}

// ListDemos prints the native demos.
func ListDemos(out io.Writer) {
	for _, d := range scenario.NativeDemos() {
		fmt.Fprintf(out, "%-14s %s: %s\n", d.Name, d.Title, d.Description)
	}
}

// NewHTTPHandler builds the HTTP API of app.
func NewHTTPHandler(app *App) http.Handler {
	return httpadapter.NewHandler(app.Engine.Dispatcher(), app.Sessions, app.Engine.Tools(),
		httpadapter.WithMetrics(app.Metrics.Handler()),
		httpadapter.WithLogger(app.Logger),
		httpadapter.WithMaxInputSize(app.Config.MaxInputSize),
	)
}

// Serve runs the HTTP API on ln until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, app *App, ln net.Listener) error {
	srv := &http.Server{
		Handler:           NewHTTPHandler(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", "address", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		app.Logger.Info("shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ServeMCP runs the MCP server on the configured transport.
func ServeMCP(ctx context.Context, app *App) error {
	srv, err := mcp.NewServer(app.Engine.Dispatcher(), app.Sessions, app.Engine.Tools(),
		mcp.WithLogger(app.Logger),
	)
	if err != nil {
		return err
	}

	switch app.Config.MCP.Transport {
	case config.TransportStdio:
		app.Logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	case config.TransportSSE:
		app.Logger.Info("starting MCP server (SSE)", "port", app.Config.MCP.Port)
		if err := srv.ServeSSE(ctx, app.Config.MCP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", app.Config.MCP.Transport)
	}
}
