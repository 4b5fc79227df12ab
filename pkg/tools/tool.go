package tools

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

// Definition describes a tool to callers (MCP, HTTP, CLI).
type Definition struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Schema      *openapi3.Schema `json:"inputSchema"`
}

// Progress is one step report emitted while a tool runs.
type Progress struct {
	Step    int
	Total   int
	Message string
}

// Call carries one invocation's arguments and host-side collaborators.
type Call struct {
	Args   map[string]any
	Signal domain.Signal
	// OnProgress, if set, is called at every phase boundary.
	OnProgress func(Progress)

	outcome *domain.Outcome
}

func (c Call) signal() domain.Signal {
	if c.Signal == nil {
		return domain.Never
	}
	return c.Signal
}

// settle records how the tool's plan ended.
func (c Call) settle(out domain.Outcome) {
	if c.outcome != nil {
		*c.outcome = out
	}
}

func (c Call) report(step, total int, msg string) {
	if c.OnProgress != nil {
		c.OnProgress(Progress{Step: step, Total: total, Message: msg})
	}
}

// Tool is one invocable operation.
type Tool interface {
	Definition() Definition

	// Prepare returns the message shown to the caller before Invoke runs.
	Prepare(args map[string]any) (string, error)

	// Invoke runs the tool and returns its output text.
	Invoke(ctx context.Context, call Call) (string, error)
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func formatMillis(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64)
}

func percent(i, n int) int {
	return int(math.Round(float64(i) / float64(n) * 100))
}
