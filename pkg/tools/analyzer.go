package tools

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
)

// NameWorkspaceAnalyzer is the name of the workspace analysis tool.
const NameWorkspaceAnalyzer = "progress-demo-workspace-analyzer"

// AnalyzerFileLimit caps how many files one scan looks at.
const AnalyzerFileLimit = 100

// WorkspaceAnalyzerInput is the input of the workspace analysis tool.
type WorkspaceAnalyzerInput struct {
	Deep          bool     `mapstructure:"deep"`
	IncludeHidden bool     `mapstructure:"includeHidden"`
	FileTypes     []string `mapstructure:"fileTypes"`
}

// DefaultWorkspaceAnalyzerInput returns the documented defaults.
func DefaultWorkspaceAnalyzerInput() WorkspaceAnalyzerInput {
	return WorkspaceAnalyzerInput{Deep: true, FileTypes: []string{}}
}

// WorkspaceAnalyzer inspects the workspace in three phases. Every inspection
// is an external call whose failure is reported inline.
type WorkspaceAnalyzer struct {
	runner    *phase.Runner
	workspace ports.Workspace
	schema    *openapi3.Schema
}

// NewWorkspaceAnalyzer creates the workspace analysis tool. A nil workspace
// behaves like a host with no folder open.
func NewWorkspaceAnalyzer(runner *phase.Runner, ws ports.Workspace) *WorkspaceAnalyzer {
	d := DefaultWorkspaceAnalyzerInput()
	return &WorkspaceAnalyzer{
		runner:    runner,
		workspace: ws,
		schema: openapi3.NewObjectSchema().
			WithProperty("deep", boolProperty("Include the per-extension breakdown", d.Deep)).
			WithProperty("includeHidden", boolProperty("Include node_modules and hidden directories", d.IncludeHidden)).
			WithProperty("fileTypes", stringListProperty("Restrict the scan to these extensions", d.FileTypes)),
	}
}

func (t *WorkspaceAnalyzer) Definition() Definition {
	return Definition{
		Name:        NameWorkspaceAnalyzer,
		Description: "Analyze the workspace structure with multi-phase progress",
		Schema:      t.schema,
	}
}

func (t *WorkspaceAnalyzer) Prepare(args map[string]any) (string, error) {
	in := DefaultWorkspaceAnalyzerInput()
	if err := bind(NameWorkspaceAnalyzer, t.schema, args, &in); err != nil {
		return "", err
	}
	return "Analyzing workspace structure and files...", nil
}

func analyzerPlan() domain.Plan {
	return domain.NewPlan(
		domain.Phase{Name: "Discovering workspace folders", Nominal: 800 * time.Millisecond},
		domain.Phase{Name: "Scanning for files", Nominal: 1000 * time.Millisecond},
		domain.Phase{Name: "Analyzing configuration", Nominal: 600 * time.Millisecond},
	)
}

func (t *WorkspaceAnalyzer) Invoke(ctx context.Context, call Call) (string, error) {
	in := DefaultWorkspaceAnalyzerInput()
	if err := bind(NameWorkspaceAnalyzer, t.schema, call.Args, &in); err != nil {
		return "", err
	}

	var (
		b       strings.Builder
		folders []ports.Folder
	)
	b.WriteString("🔍 Analyzing workspace structure...\n\n")

	out := t.runner.Run(analyzerPlan(), call.signal(), func(p domain.Phase, i, n int) {
		if i > 1 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "📋 Phase %d: %s\n", i, p.Name)
		call.report(i, n, p.Name)

		switch i {
		case 1:
			folders = t.discover(ctx, &b)
		case 2:
			t.scan(ctx, &b, in, len(folders) > 0)
		case 3:
			t.probe(ctx, &b)
		}
	})
	call.settle(out)

	if out.Cancelled {
		b.WriteString("\n❌ Analysis cancelled")
		return b.String(), nil
	}
	b.WriteString("\n✅ Workspace analysis complete!")
	return b.String(), nil
}

func (t *WorkspaceAnalyzer) discover(ctx context.Context, b *strings.Builder) []ports.Folder {
	if t.workspace == nil {
		b.WriteString("  ⚠️ No workspace folders found\n")
		return nil
	}
	folders, err := t.workspace.Folders(ctx)
	if err != nil {
		fmt.Fprintf(b, "  ❌ Error discovering folders: %v\n", err)
		return nil
	}
	if len(folders) == 0 {
		b.WriteString("  ⚠️ No workspace folders found\n")
		return nil
	}
	for _, f := range folders {
		fmt.Fprintf(b, "  📁 %s (%s)\n", f.Name, f.Path)
	}
	return folders
}

func (t *WorkspaceAnalyzer) scan(ctx context.Context, b *strings.Builder, in WorkspaceAnalyzerInput, open bool) {
	if !open {
		b.WriteString("  ⚠️ No files to scan (no workspace)\n")
		return
	}
	files, err := t.workspace.FindFiles(ctx, ports.FindOptions{
		Extensions:    in.FileTypes,
		IncludeHidden: in.IncludeHidden,
		Limit:         AnalyzerFileLimit,
	})
	if err != nil {
		fmt.Fprintf(b, "  ❌ Error scanning files: %v\n", err)
		return
	}
	fmt.Fprintf(b, "  📊 Found %d files\n", len(files))
	if !in.Deep {
		return
	}

	b.WriteString("\n📈 File type breakdown:\n")
	for _, c := range CountExtensions(files) {
		fmt.Fprintf(b, "  • .%s: %d files\n", c.Ext, c.Count)
	}
}

func (t *WorkspaceAnalyzer) probe(ctx context.Context, b *strings.Builder) {
	probes := []struct {
		icon, name string
	}{
		{"📦", "package.json"},
		{"🔧", "tsconfig.json"},
		{"🚫", ".gitignore"},
	}
	if t.workspace == nil {
		b.WriteString("  ❌ Error analyzing configuration: no workspace\n")
		return
	}
	for _, p := range probes {
		found, err := t.workspace.Exists(ctx, p.name)
		if err != nil {
			fmt.Fprintf(b, "  ❌ Error analyzing configuration: %v\n", err)
			return
		}
		mark := "❌ Not found"
		if found {
			mark = "✓ Found"
		}
		fmt.Fprintf(b, "  %s %s: %s\n", p.icon, p.name, mark)
	}
}

// ExtensionCount is one row of the file type breakdown.
type ExtensionCount struct {
	Ext   string
	Count int
}

// CountExtensions groups paths by extension (without the dot), most frequent
// first. Ties are ordered by extension. Paths without one count as
// "no-extension".
func CountExtensions(paths []string) []ExtensionCount {
	counts := map[string]int{}
	for _, p := range paths {
		ext := strings.TrimPrefix(path.Ext(p), ".")
		if ext == "" {
			ext = "no-extension"
		}
		counts[ext]++
	}
	out := make([]ExtensionCount, 0, len(counts))
	for ext, n := range counts {
		out = append(out, ExtensionCount{Ext: ext, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Ext < out[j].Ext
	})
	return out
}
