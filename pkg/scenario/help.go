package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

var commandHelp = []struct {
	id   domain.ScenarioID
	desc string
}{
	{domain.ScenarioSimple, "Shows a basic progress indicator with text updates."},
	{domain.ScenarioSteps, "Demonstrates step-by-step progress with individual completion markers."},
	{domain.ScenarioFile, "Simulates file processing with percentage-based progress tracking."},
	{domain.ScenarioLong, "Shows a complex multi-phase operation with detailed progress reporting."},
	{domain.ScenarioLinks, "Demonstrates creating clickable file links with custom titles in markdown."},
	{domain.ScenarioDetails, "Shows alternatives to collapsible sections."},
	{domain.ScenarioWeb, "Demonstrates web content capabilities and workarounds."},
	{domain.ScenarioAdvanced, "Showcases advanced features like file trees and conversation context."},
	{domain.ScenarioNative, "Lists the standalone native progress demos."},
	{domain.ScenarioInteractive, "Advanced interactive features and UX patterns."},
}

type helpHandler struct{}

func (h *helpHandler) ID() domain.ScenarioID { return domain.ScenarioHelp }

func (h *helpHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	var b strings.Builder
	b.WriteString("# 📊 Progress Demo\n\nThis assistant demonstrates various types of progress indicators.\n\n## Available Commands:\n\n")
	for _, c := range commandHelp {
		fmt.Fprintf(&b, "### `/%s`\n%s\n\n", c.id, c.desc)
	}
	b.WriteString("## 🛠️ Agent Tools\n\n" +
		"Ask about \"tools\" or \"agent mode\" to see tool documentation. " +
		"Tools include: simple progress, file processing, workspace analysis, task runner, and interactive wizard.\n\n" +
		"Try any of these commands to see different progress indicator patterns in action! 🎯")

	w := newWriter(in.Sink)
	w.Markdown(b.String())
	return w.result(h.ID(), nil), nil
}

type toolsHelpHandler struct{ deps Deps }

func (h *toolsHelpHandler) ID() domain.ScenarioID { return domain.ScenarioTools }

func (h *toolsHelpHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	var b strings.Builder
	b.WriteString("# 🛠️ Progress Demo Tools for Agent Mode\n\n" +
		"These tools can be called by an agent (over MCP or HTTP) to demonstrate progress tracking patterns.\n\n" +
		"## Available Tools:\n\n")

	if h.deps.Tools == nil {
		b.WriteString("*No tools are registered.*\n\n")
	} else {
		for _, def := range h.deps.Tools.Definitions() {
			fmt.Fprintf(&b, "### **%s**\n%s\n\n", def.Name, def.Description)
			if def.Schema == nil {
				continue
			}
			example, err := defaultsJSON(def.Schema.Properties)
			if err != nil {
				fmt.Fprintf(&b, "❌ *Could not render input schema: %v*\n\n", err)
				continue
			}
			fmt.Fprintf(&b, "**Input Schema (defaults):**\n```json\n%s\n```\n\n", example)
		}
	}

	b.WriteString("## 💡 Example Agent Requests\n\n" +
		"- *\"Show me a simple progress demo with 5 steps\"* → **progress-demo-simple**\n" +
		"- *\"Process 10 files and show progress\"* → **progress-demo-file-processor**\n" +
		"- *\"Analyze my workspace structure\"* → **progress-demo-workspace-analyzer**\n" +
		"- *\"Run a multi-phase task with custom phases\"* → **progress-demo-task-runner**\n" +
		"- *\"Walk me through an interactive setup\"* → **progress-demo-interactive-wizard**\n\n" +
		"✅ **Cancellation Support** - Cancelled tools return their partial output, never an error.")

	w := newWriter(in.Sink)
	w.Markdown(b.String())
	var names []string
	if h.deps.Tools != nil {
		names = h.deps.Tools.Names()
	}
	return w.result(h.ID(), domain.Metadata{"tools": names}), nil
}

// defaultsJSON renders the default value of every property as a JSON object.
func defaultsJSON(props openapi3.Schemas) (string, error) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := make(map[string]any, len(props))
	for _, k := range keys {
		if ref := props[k]; ref != nil && ref.Value != nil {
			obj[k] = ref.Value.Default
		}
	}
	raw, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
