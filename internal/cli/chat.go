package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aretw0/pacer/internal/presentation/tui"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/runner"
)

// ChatOptions configures an interactive or scripted conversation.
type ChatOptions struct {
	// SessionID records the conversation in the configured store. Empty keeps
	// history in memory for the lifetime of the process.
	SessionID string
	JSON      bool
	// Plain disables markdown rendering and the banner even on a terminal.
	Plain bool
	In    io.Reader
	Out   io.Writer
}

func (o ChatOptions) streams() (io.Reader, io.Writer) {
	in, out := o.In, o.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}

// newHandler picks the IO strategy: NDJSON, rendered markdown on a
// terminal, or plain streamed text.
func (a *App) newHandler(in io.Reader, out io.Writer, jsonMode, plain bool) runner.IOHandler {
	if jsonMode {
		h := runner.NewJSONHandler(in, out)
		h.MaxInputSize = a.Config.MaxInputSize
		return h
	}

	opts := []runner.TextHandlerOption{runner.WithMaxInputSize(a.Config.MaxInputSize)}
	if !plain && tui.IsTerminal(out) {
		render, err := tui.NewRenderer(tui.Width(out))
		if err != nil {
			a.Logger.Warn("markdown renderer unavailable", "err", err)
		} else {
			opts = append(opts, runner.WithTextHandlerRenderer(render))
		}
		opts = append(opts, runner.WithProgressRenderer(tui.ProgressStyle(out)))
	}
	return runner.NewTextHandler(in, out, opts...)
}

// RunChat runs the read-dispatch-print loop until the input ends.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	in, out := opts.streams()
	interactive := !opts.JSON && !opts.Plain && tui.IsTerminal(out)
	if interactive {
		tui.PrintBanner(out)
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(app.newHandler(in, out, opts.JSON, opts.Plain)),
	}
	if opts.SessionID != "" {
		runnerOpts = append(runnerOpts,
			runner.WithSessions(app.Sessions),
			runner.WithSessionID(opts.SessionID),
		)
		if !opts.JSON {
			h, err := app.Sessions.History(ctx, opts.SessionID)
			if err != nil {
				return err
			}
			if len(h) > 0 {
				printSystemMessage(out, "Resuming session '%s' (%d turns).", opts.SessionID, len(h))
			} else {
				printSystemMessage(out, "Session '%s' active.", opts.SessionID)
			}
		}
	}

	r := runner.NewRunner(app.Engine.Dispatcher(), runnerOpts...)
	err := r.Run(ctx)
	app.Logger.Debug("chat finished", "session_id", opts.SessionID, "err", err)
	return handleExecutionError(err)
}

// Ask answers a single request and prints the response. A text line may
// start with "/command".
func Ask(ctx context.Context, app *App, line string, opts ChatOptions) (domain.Response, error) {
	_, out := opts.streams()
	handler := app.newHandler(strings.NewReader(""), out, opts.JSON, opts.Plain)

	runnerOpts := []runner.Option{
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
	}
	if opts.SessionID != "" {
		runnerOpts = append(runnerOpts,
			runner.WithSessions(app.Sessions),
			runner.WithSessionID(opts.SessionID),
		)
	}

	clean, err := runner.SanitizeInputLimit(line, app.Config.MaxInputSize)
	if err != nil {
		return domain.Response{}, err
	}

	r := runner.NewRunner(app.Engine.Dispatcher(), runnerOpts...)
	resp, err := r.Step(ctx, runner.ParseRequest(clean))
	if err != nil {
		return resp, err
	}
	return resp, handler.Output(ctx, resp)
}
