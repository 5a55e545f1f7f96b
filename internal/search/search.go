package search

import (
	"context"
	"strings"
)

// Result represents a single search hit from any provider.
type Result struct {
	Title  string
	URL    string
	Source string // provider name for observability
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// lowValuePatterns marks links that never make useful rewrite references:
// video hosting and PDF documents.
var lowValuePatterns = []string{"youtube.com", ".pdf"}

// SelectReferences filters out low-value links and returns at most max
// results, preserving the provider's ranking order.
func SelectReferences(results []Result, max int) []Result {
	if max <= 0 {
		max = 2
	}
	out := make([]Result, 0, max)
	for _, r := range results {
		if isLowValue(r.URL) {
			continue
		}
		out = append(out, r)
		if len(out) >= max {
			break
		}
	}
	return out
}

func isLowValue(link string) bool {
	l := strings.ToLower(link)
	for _, p := range lowValuePatterns {
		if strings.Contains(l, p) {
			return true
		}
	}
	return false
}
