package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/getkin/kin-openapi/openapi3"
)

// NameFileProcessor is the name of the file processing tool.
const NameFileProcessor = "progress-demo-file-processor"

// FileProcessorInput is the input of the file processing tool.
type FileProcessorInput struct {
	FileCount      int      `mapstructure:"fileCount"`
	FileTypes      []string `mapstructure:"fileTypes"`
	ProcessingTime float64  `mapstructure:"processingTime"`
	ShowProgress   bool     `mapstructure:"showProgress"`
}

// DefaultFileProcessorInput returns the documented defaults.
func DefaultFileProcessorInput() FileProcessorInput {
	return FileProcessorInput{
		FileCount:      8,
		FileTypes:      []string{".js", ".ts", ".json", ".md", ".css", ".html"},
		ProcessingTime: 3000,
		ShowProgress:   true,
	}
}

// FileProcessor pretends to process a batch of generated file names.
type FileProcessor struct {
	runner *phase.Runner
	schema *openapi3.Schema
}

// NewFileProcessor creates the file processing tool.
func NewFileProcessor(runner *phase.Runner) *FileProcessor {
	d := DefaultFileProcessorInput()
	return &FileProcessor{
		runner: runner,
		schema: openapi3.NewObjectSchema().
			WithProperty("fileCount", boundedNumberProperty("Number of files to simulate processing", float64(d.FileCount), MaxSteps)).
			WithProperty("fileTypes", stringListProperty("File extensions to cycle through", d.FileTypes)).
			WithProperty("processingTime", boundedNumberProperty("Total processing time in milliseconds", d.ProcessingTime, MaxDuration)).
			WithProperty("showProgress", boolProperty("Show a percentage for every file", d.ShowProgress)),
	}
}

func (t *FileProcessor) Definition() Definition {
	return Definition{
		Name:        NameFileProcessor,
		Description: "Simulate processing multiple files with progress tracking",
		Schema:      t.schema,
	}
}

func (t *FileProcessor) parse(args map[string]any) (FileProcessorInput, error) {
	in := DefaultFileProcessorInput()
	if err := bind(NameFileProcessor, t.schema, args, &in); err != nil {
		return in, err
	}
	d := DefaultFileProcessorInput()
	if in.FileCount <= 0 {
		in.FileCount = d.FileCount
	}
	if len(in.FileTypes) == 0 {
		in.FileTypes = d.FileTypes
	}
	if in.ProcessingTime <= 0 {
		in.ProcessingTime = d.ProcessingTime
	}
	return in, nil
}

func (t *FileProcessor) Prepare(args map[string]any) (string, error) {
	in, err := t.parse(args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Processing %d files with progress tracking...", in.FileCount), nil
}

func (t *FileProcessor) Invoke(ctx context.Context, call Call) (string, error) {
	in, err := t.parse(call.Args)
	if err != nil {
		return "", err
	}

	files := make([]string, in.FileCount)
	for i := range files {
		files[i] = fmt.Sprintf("file%d%s", i+1, in.FileTypes[i%len(in.FileTypes)])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📁 Processing %d files...\n\n", len(files))

	plan := domain.UniformPlan(millis(in.ProcessingTime), files...)
	out := t.runner.Run(plan, call.signal(), func(p domain.Phase, i, n int) {
		var line string
		if in.ShowProgress {
			line = fmt.Sprintf("📄 %s - %d%% complete", p.Name, percent(i, n))
		} else {
			line = fmt.Sprintf("📄 %s ✓", p.Name)
		}
		b.WriteString(line + "\n")
		call.report(i, n, line)
	})
	call.settle(out)

	if out.Cancelled {
		fmt.Fprintf(&b, "\n❌ File processing cancelled at %s", files[out.At-1])
		return b.String(), nil
	}
	fmt.Fprintf(&b, "\n✅ Successfully processed %d files!", len(files))
	return b.String(), nil
}
