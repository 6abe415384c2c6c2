// Package llm generates an optional prose summary of an enrichment run. The
// summary is presentation only; it never feeds back into extraction or
// scoring, and the pipeline runs fine with no provider configured.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chpollin/km/internal/model"
)

// Provider is a chat-completion backend for report summaries.
type Provider interface {
	Name() string
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
}

// SummarizeRequest carries the statistics to describe.
type SummarizeRequest struct {
	Stats     model.Stats
	Prompt    string // optional override; BuildPrompt is used when empty
	MaxTokens int
}

// SummarizeResponse is the generated summary.
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// NewProvider builds the configured provider, or nil when none is set.
// "openai" also covers any OpenAI-compatible endpoint (Ollama, vLLM) via
// BaseURL.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// BuildPrompt renders the statistics as a compact fact sheet. The model is
// told to describe only these numbers so the summary cannot invent records.
func BuildPrompt(stats model.Stats) string {
	var b strings.Builder
	b.WriteString("Summarize the following metadata-enrichment run of the Hans Gross ")
	b.WriteString("Kriminalmuseum archive in 3-5 sentences of plain prose. ")
	b.WriteString("Use only the numbers given; do not invent any records, dates or names.\n\n")
	fmt.Fprintf(&b, "records total: %d\n", stats.Total)
	fmt.Fprintf(&b, "with exact date: %d\n", stats.WithDate)
	fmt.Fprintf(&b, "with estimated date: %d\n", stats.WithEstimatedDate)
	fmt.Fprintf(&b, "classified: %d\n", stats.Classified)
	fmt.Fprintf(&b, "with crime types: %d\n", stats.WithCrimes)
	fmt.Fprintf(&b, "with locations: %d\n", stats.WithLocations)
	fmt.Fprintf(&b, "with persons: %d\n", stats.WithPersons)
	fmt.Fprintf(&b, "without fulltext: %d\n", stats.WithoutFulltext)
	fmt.Fprintf(&b, "failed: %d\n", stats.Failed)

	if len(stats.Coverage) > 0 {
		b.WriteString("\ncoverage ratios:\n")
		keys := make([]string, 0, len(stats.Coverage))
		for k := range stats.Coverage {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %.3f\n", k, stats.Coverage[k])
		}
	}
	return b.String()
}
