package scenario

import (
	"context"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
)

type linksHandler struct{ deps Deps }

func (h *linksHandler) ID() domain.ScenarioID { return domain.ScenarioLinks }

func (h *linksHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## File Links Demo\n\nDemonstrating how to create links to files with custom titles...\n")

	var (
		base    string
		example bool
	)
	s := script{
		{
			progress: "🔍 Scanning workspace files...",
			wait:     time.Second,
			stage:    "scanning",
			done: func(w *writer) {
				folder, ok, err := firstFolder(ctx, h.deps.Workspace)
				switch {
				case err != nil:
					w.Markdownf("❌ *Could not read workspace folders: %v*\n\n", err)
					base, example = "/example/project", true
				case !ok:
					w.Markdown("ℹ️ *No workspace folder found - showing example links*\n\n")
					base, example = "/example/project", true
				default:
					base = folder.Path
				}

				title := "Files with Custom Link Titles:"
				if example {
					title = "Example " + title
				}
				w.Markdownf("### 📁 **%s**\n", title)
				w.Markdownf("- [📦 **Project Configuration**](%s) - Main package.json file\n", fileURI(base, "package.json"))
				w.Markdownf("- [⚡ **Source Code**](%s) - Main entry point\n", fileURI(base, "main.go"))
				w.Markdownf("- [🔧 **Module Definition**](%s) - Dependencies\n", fileURI(base, "go.mod"))
				w.Markdownf("- [📖 **Documentation**](%s) - Project README\n", fileURI(base, "README.md"))
			},
		},
		{
			progress: "🔗 Creating additional examples...",
			wait:     time.Second,
			stage:    "link styles",
			done: func(w *writer) {
				src, readme := fileURI(base, "main.go"), fileURI(base, "README.md")
				w.Markdown("\n### 🌐 **Different Link Styles:**\n")
				w.Markdownf("Check out the `main.go` file: [View Source](%s)\n", src)
				w.Markdownf("**Important:** [**📋 Module Dependencies**](%s)\n", fileURI(base, "go.mod"))
				w.Markdownf("Quick access: [Source](%s) | [Docs](%s)\n", src, readme)
				w.Markdown("\n### 💡 **Link Syntax Examples:**\n```markdown\n" +
					"[Custom Title](file:///path/to/file.ext)\n" +
					"[📁 **Folder Name**](file:///path/to/folder/)\n" +
					"Check the [important file](file:///path/to/file.txt) for details.\n```\n")
				w.Markdown("- [🌐 **Example Web Link**](https://go.dev) - Go Website\n")
			},
		},
	}

	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Demo", out)
		return w.result(h.ID(), nil), nil
	}

	w.Markdown("\n✅ **File Links Demo Complete!**\n\nClick any of the links above to open the corresponding files.")
	return w.result(h.ID(), domain.Metadata{"exampleLinks": example}), nil
}

type detailsHandler struct{ deps Deps }

func (h *detailsHandler) ID() domain.ScenarioID { return domain.ScenarioDetails }

func (h *detailsHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## Collapsible Content Alternatives\n\n❌ **HTML `<details>` tags don't render in chat**\n\n" +
		"But here are effective alternatives for organizing content:\n\n")

	s := script{
		{
			progress: "🎨 Creating organized content sections...",
			wait:     time.Second,
			stage:    "follow-up prompts",
			done: func(w *writer) {
				w.Markdown("### 📋 **Method 1: Interactive Follow-up Prompts**\n\n")
				w.Markdown("> 🔍 **Want to see more details?** Try these commands:\n" +
					"> - `simple` - Basic progress demo\n> - `steps` - Step-by-step process\n> - `file` - File processing example\n\n")
			},
		},
		{
			progress: "📊 Adding organized sections...",
			wait:     800 * time.Millisecond,
			stage:    "visual sections",
			done: func(w *writer) {
				w.Markdown("### 📂 **Method 2: Visual Section Organization**\n\n")
				w.Markdown("---\n\n#### ⚙️ **Configuration Options**\n\n" +
					"| Option | Default | Description |\n|--------|---------|-------------|\n" +
					"| `time_scale` | `1` | Multiplier for every phase duration |\n" +
					"| `log_level` | `info` | Minimum log level |\n" +
					"| `store.kind` | `memory` | Where session history is kept |\n\n")
			},
		},
		{
			progress: "🎨 Adding progressive disclosure...",
			wait:     600 * time.Millisecond,
			stage:    "progressive disclosure",
			done: func(w *writer) {
				w.Markdown("### 🎯 **Method 3: Progressive Disclosure**\n\n")
				w.Markdown("> **📊 Quick Summary:** Every demo is a plan of phases with progress notices.\n\n")
				w.Markdown("**🔍 Detailed Breakdown:**\n\n" +
					"1. **Simple Progress** - Basic indeterminate progress with text updates\n" +
					"2. **Step Progress** - Multi-step processes with individual completion markers\n" +
					"3. **File Progress** - Percentage-based tracking for file operations\n" +
					"4. **Long Tasks** - Complex multi-phase operations with detailed reporting\n\n")
				w.Markdown("### 🎨 **Method 4: Interactive Callouts**\n\n" +
					"> 💡 **Pro Tip:** Run `long` to see a complex multi-phase operation in action!\n\n")
			},
		},
	}

	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Demo", out)
		return w.result(h.ID(), nil), nil
	}

	w.Markdown("### 🎯 **Best Practices Summary:**\n\n" +
		"1. **📋 Follow-up Prompts** - Most interactive, lets users choose what to explore\n" +
		"2. **📂 Visual Separators** - Clean organization with headers and dividers\n" +
		"3. **🎯 Progressive Disclosure** - Summary first, details follow\n" +
		"4. **🎨 Interactive Callouts** - Blockquotes with guidance for next steps\n\n")
	w.Markdown("✅ **Alternatives Demo Complete!**\n\n")
	return w.result(h.ID(), nil), nil
}

type webHandler struct{ deps Deps }

func (h *webHandler) ID() domain.ScenarioID { return domain.ScenarioWeb }

func (h *webHandler) Invoke(ctx context.Context, in Invocation) (domain.Result, error) {
	w := newWriter(in.Sink)
	w.Markdown("## Web Content in Chat\n\n❌ **Direct web embedding (iframes, webviews) is NOT supported in a response stream**\n\n" +
		"But here are the supported alternatives and workarounds:\n\n")

	s := script{
		{
			progress: "🔍 Exploring available options...",
			wait:     time.Second,
			stage:    "images",
			done: func(w *writer) {
				w.Markdown("### ✅ **What IS Supported:**\n\n#### 🖼️ **1. Images via Markdown**\n")
				w.Markdown("```markdown\n![Alt text](https://go.dev/images/go-logo-blue.svg)\n```\n\n")
			},
		},
		{
			progress: "🔗 Adding interactive elements...",
			wait:     800 * time.Millisecond,
			stage:    "links",
			done: func(w *writer) {
				w.Markdown("#### 🔗 **2. Clickable Web Links**\n\n" +
					"- [🌐 **Go Documentation**](https://go.dev/doc)\n" +
					"- [📚 **Package Reference**](https://pkg.go.dev)\n" +
					"- [🔧 **Model Context Protocol**](https://modelcontextprotocol.io)\n\n")
			},
		},
		{
			progress: "📊 Creating rich content examples...",
			wait:     600 * time.Millisecond,
			stage:    "file references",
			done: func(w *writer) {
				w.Markdown("#### 📁 **3. File References & Anchors**\n")
				folder, ok, err := firstFolder(ctx, h.deps.Workspace)
				switch {
				case err != nil:
					w.Markdownf("❌ *Could not read workspace folders: %v*\n\n", err)
				case ok:
					w.Markdownf("[📦 Jump to go.mod](%s)\n\n", fileURI(folder.Path, "go.mod"))
				default:
					w.Markdown("*File references would appear here if a workspace was open*\n\n")
				}
				w.Markdown("#### 📋 **4. Rich Markdown Content**\n\n" +
					"| Feature | Supported | Alternative |\n|---------|-----------|-------------|\n" +
					"| Images | ✅ Markdown | External URLs |\n" +
					"| Videos | ❌ No | Links to video sites |\n" +
					"| Iframes | ❌ No | Open in browser |\n" +
					"| Forms | ❌ No | Use follow-up commands |\n\n")
			},
		},
	}

	if out := s.run(h.deps.Runner, in.Signal, w); out.Cancelled {
		s.cancelNotice(w, "Demo", out)
		return w.result(h.ID(), nil), nil
	}

	w.Markdown("### 🔧 **Best Workarounds:**\n" +
		"1. **External Browser** - For full web applications\n" +
		"2. **Follow-up Commands** - For interactive functionality\n\n")
	w.Markdown("✅ **Web Content Demo Complete!**")
	return w.result(h.ID(), nil), nil
}
