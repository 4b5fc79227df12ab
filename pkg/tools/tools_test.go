package tools_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorkspace is an in-memory ports.Workspace.
type fakeWorkspace struct {
	folders   []ports.Folder
	files     []string
	existing  map[string]bool
	folderErr error
	findErr   error
	existsErr error
	lastFind  ports.FindOptions
}

func (w *fakeWorkspace) Folders(context.Context) ([]ports.Folder, error) {
	return w.folders, w.folderErr
}

func (w *fakeWorkspace) FindFiles(_ context.Context, opts ports.FindOptions) ([]string, error) {
	w.lastFind = opts
	return w.files, w.findErr
}

func (w *fakeWorkspace) Exists(_ context.Context, name string) (bool, error) {
	return w.existing[name], w.existsErr
}

func instant() *phase.Runner {
	return phase.NewRunner(phase.WithTimeScale(0))
}

func requested() *domain.Cancellation {
	c := domain.NewCancellation()
	c.Request()
	return c
}

func TestSimple_CancelledImmediately(t *testing.T) {
	tool := tools.NewSimple(instant())

	out, err := tool.Invoke(context.Background(), tools.Call{
		Args:   map[string]any{"duration": 100, "steps": 2},
		Signal: requested(),
	})

	require.NoError(t, err, "cancellation is not an error")
	assert.Contains(t, out, "❌ Task cancelled at step 1")
	assert.NotContains(t, out, "🎉")
	assert.NotContains(t, out, "✓ Step")
}

func TestSimple_Completes(t *testing.T) {
	tool := tools.NewSimple(instant())

	var progress []tools.Progress
	out, err := tool.Invoke(context.Background(), tools.Call{
		Args:       map[string]any{"duration": 100, "steps": 2, "message": "Indexing"},
		OnProgress: func(p tools.Progress) { progress = append(progress, p) },
	})
	require.NoError(t, err)

	want := "Starting Indexing...\n\n" +
		"✓ Step 1/2: Indexing (50%)\n" +
		"✓ Step 2/2: Indexing (100%)\n" +
		"\n🎉 Task completed successfully in 100ms!"
	assert.Equal(t, want, out)
	require.Len(t, progress, 2)
	assert.Equal(t, 2, progress[1].Total)
}

func TestSimple_Defaults(t *testing.T) {
	tool := tools.NewSimple(instant())

	out, err := tool.Invoke(context.Background(), tools.Call{Args: map[string]any{"steps": 0}})
	require.NoError(t, err)
	assert.Contains(t, out, "Starting Processing task...")
	assert.Contains(t, out, "✓ Step 3/3: Processing task (100%)")
	assert.Contains(t, out, "in 5000ms!")

	msg, err := tool.Prepare(nil)
	require.NoError(t, err)
	assert.Equal(t, `Running simple progress demo for "task"...`, msg)

	msg, err = tool.Prepare(map[string]any{"message": "backup"})
	require.NoError(t, err)
	assert.Equal(t, `Running simple progress demo for "backup"...`, msg)
}

func TestSimple_InvalidInput(t *testing.T) {
	tool := tools.NewSimple(instant())

	_, err := tool.Invoke(context.Background(), tools.Call{Args: map[string]any{"steps": "many"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = tool.Prepare(map[string]any{"message": 12})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileProcessor(t *testing.T) {
	tool := tools.NewFileProcessor(instant())

	t.Run("defaults", func(t *testing.T) {
		out, err := tool.Invoke(context.Background(), tools.Call{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "📁 Processing 8 files...\n\n"))
		assert.Contains(t, out, "📄 file1.js - 13% complete\n")
		assert.Contains(t, out, "📄 file7.js - 88% complete\n")
		assert.Contains(t, out, "📄 file8.ts - 100% complete\n")
		assert.True(t, strings.HasSuffix(out, "\n✅ Successfully processed 8 files!"))
	})

	t.Run("without percentages", func(t *testing.T) {
		out, err := tool.Invoke(context.Background(), tools.Call{
			Args: map[string]any{"fileCount": 2, "fileTypes": []string{".go"}, "showProgress": false},
		})
		require.NoError(t, err)
		assert.Contains(t, out, "📄 file1.go ✓\n📄 file2.go ✓\n")
	})

	t.Run("given types replace the defaults", func(t *testing.T) {
		out, err := tool.Invoke(context.Background(), tools.Call{
			Args: map[string]any{"fileCount": 3, "fileTypes": []string{".go"}},
		})
		require.NoError(t, err)
		assert.Contains(t, out, "📄 file1.go - 33% complete\n📄 file2.go - 67% complete\n📄 file3.go - 100% complete\n")
		assert.NotContains(t, out, ".ts")
	})

	t.Run("cancelled mid batch", func(t *testing.T) {
		sig := domain.NewCancellation()
		out, err := tool.Invoke(context.Background(), tools.Call{
			Signal: sig,
			OnProgress: func(p tools.Progress) {
				if p.Step == 3 {
					sig.Request()
				}
			},
		})
		require.NoError(t, err)
		assert.Contains(t, out, "📄 file3.json")
		assert.NotContains(t, out, "📄 file4.md")
		assert.True(t, strings.HasSuffix(out, "\n❌ File processing cancelled at file4.md"))
	})

	msg, err := tool.Prepare(map[string]any{"fileCount": 3})
	require.NoError(t, err)
	assert.Equal(t, "Processing 3 files with progress tracking...", msg)
}

func TestWorkspaceAnalyzer(t *testing.T) {
	ws := &fakeWorkspace{
		folders:  []ports.Folder{{Name: "pacer", Path: "/src/pacer"}},
		files:    []string{"a.go", "b.go", "c.md", "d.yaml", "e.md", "f.go", "Makefile"},
		existing: map[string]bool{".gitignore": true},
	}
	tool := tools.NewWorkspaceAnalyzer(instant(), ws)

	out, err := tool.Invoke(context.Background(), tools.Call{
		Args: map[string]any{"fileTypes": []string{".go", ".md"}},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "📋 Phase 1: Discovering workspace folders\n  📁 pacer (/src/pacer)\n")
	assert.Contains(t, out, "  📊 Found 7 files\n")
	assert.Contains(t, out, "  • .go: 3 files\n  • .md: 2 files\n  • .no-extension: 1 files\n  • .yaml: 1 files\n")
	assert.Contains(t, out, "  📦 package.json: ❌ Not found\n")
	assert.Contains(t, out, "  🚫 .gitignore: ✓ Found\n")
	assert.True(t, strings.HasSuffix(out, "\n✅ Workspace analysis complete!"))

	assert.Equal(t, []string{".go", ".md"}, ws.lastFind.Extensions)
	assert.False(t, ws.lastFind.IncludeHidden)
	assert.Equal(t, tools.AnalyzerFileLimit, ws.lastFind.Limit)
}

func TestWorkspaceAnalyzer_ExternalFailuresAreInline(t *testing.T) {
	ws := &fakeWorkspace{
		folders:   []ports.Folder{{Name: "x", Path: "/x"}},
		findErr:   errors.New("permission denied"),
		existsErr: errors.New("disk gone"),
	}
	tool := tools.NewWorkspaceAnalyzer(instant(), ws)

	out, err := tool.Invoke(context.Background(), tools.Call{})
	require.NoError(t, err)
	assert.Contains(t, out, "  ❌ Error scanning files: permission denied\n")
	assert.Contains(t, out, "  ❌ Error analyzing configuration: disk gone\n")
	assert.Contains(t, out, "📋 Phase 3: Analyzing configuration")
	assert.True(t, strings.HasSuffix(out, "✅ Workspace analysis complete!"))
}

func TestWorkspaceAnalyzer_NoWorkspace(t *testing.T) {
	tool := tools.NewWorkspaceAnalyzer(instant(), &fakeWorkspace{})

	out, err := tool.Invoke(context.Background(), tools.Call{Args: map[string]any{"deep": false}})
	require.NoError(t, err)
	assert.Contains(t, out, "  ⚠️ No workspace folders found\n")
	assert.Contains(t, out, "  ⚠️ No files to scan (no workspace)\n")
	assert.NotContains(t, out, "File type breakdown")
}

func TestWorkspaceAnalyzer_Cancelled(t *testing.T) {
	ws := &fakeWorkspace{folders: []ports.Folder{{Name: "x", Path: "/x"}}}
	tool := tools.NewWorkspaceAnalyzer(instant(), ws)

	sig := domain.NewCancellation()
	out, err := tool.Invoke(context.Background(), tools.Call{
		Signal: sig,
		OnProgress: func(p tools.Progress) {
			if p.Step == 1 {
				sig.Request()
			}
		},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "📁 x (/x)")
	assert.NotContains(t, out, "Phase 2")
	assert.True(t, strings.HasSuffix(out, "\n❌ Analysis cancelled"))
}

func TestTaskRunner_CancellationIgnoredWhenDisallowed(t *testing.T) {
	tool := tools.NewTaskRunner(instant(), phase.NewRand(1))

	out, err := tool.Invoke(context.Background(), tools.Call{
		Args:   map[string]any{"phases": []string{"A", "B"}, "totalDuration": 200, "allowCancellation": false},
		Signal: requested(),
	})
	require.NoError(t, err)
	assert.Contains(t, out, "📋 Phase 1/2: A\n")
	assert.Contains(t, out, "✅ Phase 1 complete\n")
	assert.Contains(t, out, "📋 Phase 2/2: B\n")
	assert.Contains(t, out, "✅ Phase 2 complete\n")
	assert.Contains(t, out, "🎉 All phases completed successfully!\n📊 Total execution time: 200ms")
	assert.NotContains(t, out, "❌")
	assert.Equal(t, 2, strings.Count(out, "📋 Phase "), "given phases replace the defaults")
	assert.NotContains(t, out, "Validation")
}

func TestTaskRunner_Cancelled(t *testing.T) {
	tool := tools.NewTaskRunner(instant(), phase.NewRand(1))

	t.Run("before first phase", func(t *testing.T) {
		out, err := tool.Invoke(context.Background(), tools.Call{Signal: requested()})
		require.NoError(t, err)
		assert.Equal(t, "🚀 Starting multi-phase task execution...\n\n❌ Task cancelled during Setup phase", out)
	})

	t.Run("during substeps", func(t *testing.T) {
		sig := domain.NewCancellation()
		out, err := tool.Invoke(context.Background(), tools.Call{
			Signal:     sig,
			OnProgress: func(tools.Progress) { sig.Request() },
		})
		require.NoError(t, err)
		assert.Contains(t, out, "📋 Phase 1/4: Setup\n  ❌ Cancelled during substep 1\n")
		assert.Equal(t, 1, strings.Count(out, "❌"), "exactly one cancellation notice")
		assert.NotContains(t, out, "🎉")
	})
}

func TestTaskRunner_Details(t *testing.T) {
	tool := tools.NewTaskRunner(instant(), phase.NewRand(3))

	out, err := tool.Invoke(context.Background(), tools.Call{Args: map[string]any{"phases": []string{"Only"}}})
	require.NoError(t, err)
	assert.Contains(t, out, "  • Initializing resources...\n  ✓ Initializing resources complete\n")
	assert.Contains(t, out, "  • Loading data...\n")
	assert.NotContains(t, out, "Cleanup operations")

	out, err = tool.Invoke(context.Background(), tools.Call{Args: map[string]any{"showDetails": false}})
	require.NoError(t, err)
	assert.NotContains(t, out, "•")
	assert.Contains(t, out, "📋 Phase 4/4: Completion\n✅ Phase 4 complete\n")

	msg, err := tool.Prepare(map[string]any{"phases": []string{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, "Executing 3-phase task with progress tracking...", msg)
}

func TestInteractiveWizard(t *testing.T) {
	tool := tools.NewInteractiveWizard(instant(), phase.NewRand(9))

	out, err := tool.Invoke(context.Background(), tools.Call{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "🧙‍♂️ Setup Wizard - Interactive Progress Demo\n\n"))
	assert.Contains(t, out, "📋 Step 1/5: Welcome & Introduction\n   🔄 Preparing wizard interface...\n")
	assert.Contains(t, out, "   ⚙️ Selected: ")
	assert.Contains(t, out, "   📦 Installing: TypeScript Support")
	assert.NotContains(t, out, "Completion & Summary")
	assert.True(t, strings.HasSuffix(out, "🎉 Setup Wizard completed successfully!\n📊 Summary: 5 steps completed with interactive elements"))

	out, err = tool.Invoke(context.Background(), tools.Call{Args: map[string]any{"steps": 9, "includeChoices": false}})
	require.NoError(t, err)
	assert.Contains(t, out, "📋 Step 6/9: Completion & Summary")
	assert.NotContains(t, out, "Selected:")
	assert.Contains(t, out, "📊 Summary: 9 steps")

	sig := domain.NewCancellation()
	out, err = tool.Invoke(context.Background(), tools.Call{
		Signal: sig,
		OnProgress: func(p tools.Progress) {
			if p.Step == 2 {
				sig.Request()
			}
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "❌ Wizard cancelled at step 3"))

	msg, err := tool.Prepare(map[string]any{"wizardType": "Migration", "steps": 3})
	require.NoError(t, err)
	assert.Equal(t, "Running Migration with 3 interactive steps...", msg)
}

func TestCountExtensions(t *testing.T) {
	got := tools.CountExtensions([]string{"a/b.ts", "c.ts", "d.js", "README", "e.css", "f.js", "g.ts"})
	assert.Equal(t, []tools.ExtensionCount{
		{Ext: "ts", Count: 3},
		{Ext: "js", Count: 2},
		{Ext: "css", Count: 1},
		{Ext: "no-extension", Count: 1},
	}, got)
}

func TestOversizedInputIsRejected(t *testing.T) {
	reg := tools.NewRegistry(instant(), nil, tools.WithRand(phase.NewRand(1)))

	many := make([]string, tools.MaxSteps+1)
	for i := range many {
		many[i] = "P"
	}

	tests := []struct {
		tool string
		args map[string]any
	}{
		{tools.NameSimple, map[string]any{"steps": 1e15}},
		{tools.NameSimple, map[string]any{"duration": 1e12}},
		{tools.NameFileProcessor, map[string]any{"fileCount": 1e15}},
		{tools.NameFileProcessor, map[string]any{"processingTime": tools.MaxDuration + 1}},
		{tools.NameTaskRunner, map[string]any{"totalDuration": 1e15}},
		{tools.NameTaskRunner, map[string]any{"phases": many}},
		{tools.NameInteractiveWizard, map[string]any{"steps": 1e15}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			_, err := reg.Invoke(context.Background(), tt.tool, tools.Call{Args: tt.args})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	out, err := reg.Invoke(context.Background(), tools.NameSimple, tools.Call{
		Args: map[string]any{"steps": tools.MaxSteps, "duration": 0},
	})
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("✓ Step %d/%d", tools.MaxSteps, tools.MaxSteps))
}
