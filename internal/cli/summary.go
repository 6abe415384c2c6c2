package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/chpollin/km/internal/llm"
	"github.com/chpollin/km/internal/model"
)

// printSummary asks the configured LLM for a prose description of the run
// statistics and prints it to stdout.
func printSummary(ctx context.Context, cfg *model.Config, stats model.Stats) error {
	llmCfg := cfg.LLM
	llmCfg.Provider = "openai"
	if llmModel != "" {
		llmCfg.Model = llmModel
	}
	if llmCfg.APIKey == "" {
		llmCfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return err
	}

	resp, err := provider.Summarize(ctx, llm.SummarizeRequest{Stats: stats})
	if err != nil {
		return err
	}
	fmt.Printf("\n%s\n", resp.Summary)
	if verbose {
		fmt.Fprintf(os.Stderr, "(model %s, %d tokens)\n", resp.Model, resp.TokensUsed)
	}
	return nil
}
