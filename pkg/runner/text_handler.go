package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
	"golang.org/x/term"
)

// ContentRenderer transforms content before it is printed, e.g. markdown to
// ANSI. It keeps the runner free of terminal dependencies.
type ContentRenderer func(string) (string, error)

// TextHandler implements line-based terminal interaction.
//
// Without a Renderer, fragments are printed as they arrive. With one, the
// whole response is rendered at once when it finishes, since fragments are
// not standalone markdown (a table arrives row by row).
type TextHandler struct {
	source      io.Reader
	interactive bool // true when reading from a terminal, where EOF may come from Ctrl+C
	Reader      *bufio.Reader
	Writer      io.Writer
	Renderer    ContentRenderer
	// ProgressRenderer styles progress notices. Nil prints them as is.
	ProgressRenderer func(string) string
	MaxInputSize     int

	mu        sync.Mutex
	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithProgressRenderer configures how progress notices are styled.
func WithProgressRenderer(fn func(string) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.ProgressRenderer = fn
	}
}

// WithMaxInputSize overrides the input size limit.
func WithMaxInputSize(n int) TextHandlerOption {
	return func(h *TextHandler) {
		h.MaxInputSize = n
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		source:       r,
		interactive:  isTerminal(r),
		Writer:       w,
		MaxInputSize: maxInputSize(),
	}
	h.Reader = bufio.NewReader(h.source)

	for _, opt := range opts {
		opt(h)
	}
	return h
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour ctx.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				if h.interactive {
					// A terminal read interrupted by Ctrl+C reports EOF but the
					// stream stays usable.
					h.inputChan <- inputResult{err: io.EOF}
					time.Sleep(50 * time.Millisecond)
					continue
				}
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Input prompts and reads the next non-empty line.
func (h *TextHandler) Input(ctx context.Context) (domain.Request, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return domain.Request{}, ctx.Err()
		default:
			h.write("> ")
		}

		select {
		case <-ctx.Done():
			return domain.Request{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return domain.Request{}, io.EOF
			}
			if res.err != nil {
				return domain.Request{}, res.err
			}

			clean, err := SanitizeInputLimit(strings.TrimSpace(res.text), h.MaxInputSize)
			if err != nil {
				h.write(fmt.Sprintf("Error: %v. Please try again.\n", err))
				continue
			}
			if clean == "" {
				continue
			}
			return ParseRequest(clean), nil
		}
	}
}

// Sink returns the live output stream of the running request.
func (h *TextHandler) Sink() ports.Sink {
	return textSink{h}
}

type textSink struct{ h *TextHandler }

func (s textSink) Progress(msg string) {
	if s.h.ProgressRenderer != nil {
		msg = s.h.ProgressRenderer(msg)
	}
	s.h.write(msg + "\n")
}

func (s textSink) Markdown(fragment string) {
	if s.h.Renderer != nil {
		return
	}
	s.h.write(fragment)
}

// Output renders the response, if a renderer is set, and the followups.
func (h *TextHandler) Output(ctx context.Context, resp domain.Response) error {
	var b strings.Builder
	if h.Renderer != nil {
		md := strings.Join(resp.Result.Fragments, "")
		out, err := h.Renderer(md)
		if err != nil {
			out = md
		}
		b.WriteString(strings.TrimSpace(out))
	}
	b.WriteString("\n\n")
	b.WriteString(FormatSuggestions(resp.Suggestions))
	h.write(b.String())
	return nil
}

// SystemOutput prints a meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	h.write(fmt.Sprintf("\n[System] %s\n", msg))
	return nil
}

func (h *TextHandler) write(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprint(h.Writer, s)
}

// FormatSuggestions renders followups as a plain list, with the command to
// type when there is one.
func FormatSuggestions(s []domain.Suggestion) string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Next:\n")
	for _, x := range s {
		if x.HasCommand() {
			fmt.Fprintf(&b, "  %s  /%s %s\n", x.Label, x.Command, x.Prompt)
			continue
		}
		fmt.Fprintf(&b, "  %s  %s\n", x.Label, x.Prompt)
	}
	return b.String()
}
