package ports

// Sink is the one-way output stream of a response. The engine never reads
// anything back from it.
type Sink interface {
	// Progress shows an ephemeral notice that the next notice replaces.
	Progress(msg string)

	// Markdown appends a permanent fragment to the response.
	Markdown(fragment string)
}

// DiscardSink drops everything written to it.
type DiscardSink struct{}

func (DiscardSink) Progress(string) {}
func (DiscardSink) Markdown(string) {}

// SinkFuncs adapts two functions to a Sink. A nil func drops its stream.
type SinkFuncs struct {
	OnProgress func(string)
	OnMarkdown func(string)
}

func (s SinkFuncs) Progress(msg string) {
	if s.OnProgress != nil {
		s.OnProgress(msg)
	}
}

func (s SinkFuncs) Markdown(fragment string) {
	if s.OnMarkdown != nil {
		s.OnMarkdown(fragment)
	}
}
