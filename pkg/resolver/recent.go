package resolver

import (
	"strings"

	"github.com/aretw0/pacer/pkg/domain"
)

// Category labels produced by ClassifyRecent.
const (
	CategorySimple      = "simple"
	CategoryAdvanced    = "advanced"
	CategoryNative      = "native"
	CategoryInteractive = "interactive"
	CategoryOther       = "other"
)

var recentCategories = []string{
	CategorySimple,
	CategoryAdvanced,
	CategoryNative,
	CategoryInteractive,
}

// ClassifyRecent labels the prompts of the last n request turns in history.
// It reads a bounded view and never modifies history.
func ClassifyRecent(history domain.History, n int) []string {
	if n <= 0 {
		return []string{}
	}
	reqs := history.Requests()
	if n < len(reqs) {
		reqs = reqs[len(reqs)-n:]
	}
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, classify(r.Prompt))
	}
	return out
}

func classify(prompt string) string {
	p := strings.ToLower(prompt)
	for _, c := range recentCategories {
		if strings.Contains(p, c) {
			return c
		}
	}
	return CategoryOther
}
