package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chpollin/km/internal/enrich"
	"github.com/chpollin/km/internal/store"
	"github.com/chpollin/km/internal/validate"
)

var (
	enrichInput   string
	enrichOutput  string
	enrichStats   string
	enrichWorkers int
	enrichDB      string
	enrichStrict  bool
	llmEnabled    bool
	llmModel      string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich harvested records with structured metadata",
	Long: `Enrich runs the rule engine over every record: historical year with
provenance, crime types from statute citations and keywords, locations,
persons with attributes, an object-taxonomy class and a quality score.

Output is sorted chronologically; records without a year go last.

Example:
  km enrich
  km enrich --input km_archive/metadata/all_objects.json --output enriched.json
  km enrich --db km.db --strict`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().StringVar(&enrichInput, "input", "km_archive/metadata/all_objects.json", "harvested records file")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "km_archive/metadata/enriched_objects.json", "enriched output file")
	enrichCmd.Flags().StringVar(&enrichStats, "stats", "", "also write batch statistics JSON (optional)")
	enrichCmd.Flags().IntVar(&enrichWorkers, "workers", 0, "parallel workers (0: config default)")
	enrichCmd.Flags().StringVar(&enrichDB, "db", "", "also upsert into this SQLite database (optional)")
	enrichCmd.Flags().BoolVar(&enrichStrict, "strict", false, "fail when output violates a guarantee")
	enrichCmd.Flags().BoolVar(&llmEnabled, "llm", false, "print an LLM summary of the run (needs OPENAI_API_KEY or KM_LLM_BASE_URL)")
	enrichCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if enrichWorkers > 0 {
		cfg.Concurrency.Workers = enrichWorkers
	}

	records, err := store.ReadRecords(enrichInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Enriching %d records\n", len(records))

	ctx := context.Background()
	enricher := enrich.New(cfg.Extraction, log)
	enriched, stats := enricher.EnrichAllParallel(ctx, records, cfg.Concurrency.Workers)

	if enrichStrict {
		validator := validate.New(cfg.Extraction)
		if issues := validator.Batch(enriched); len(issues) > 0 {
			for _, issue := range issues {
				fmt.Fprintf(os.Stderr, "  %s\n", issue)
			}
			return fmt.Errorf("%d guarantee violations", len(issues))
		}
	}

	if err := store.WriteJSON(enrichOutput, enriched); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if enrichStats != "" {
		if err := store.WriteJSON(enrichStats, stats); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}

	if enrichDB != "" {
		db, err := store.OpenSQLite(ctx, enrichDB)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()
		if err := db.Save(ctx, enriched); err != nil {
			return fmt.Errorf("save to database: %w", err)
		}
		fmt.Fprintf(os.Stderr, "  database: %s\n", enrichDB)
	}

	fmt.Fprintf(os.Stderr, "\nEnriched %d records -> %s\n", stats.Total, enrichOutput)
	fmt.Fprintf(os.Stderr, "  dates: %d exact, %d estimated (%.1f%% coverage)\n",
		stats.WithDate, stats.WithEstimatedDate, stats.Coverage["date"]*100)
	fmt.Fprintf(os.Stderr, "  classified: %d, crimes: %d, locations: %d, persons: %d\n",
		stats.Classified, stats.WithCrimes, stats.WithLocations, stats.WithPersons)
	if stats.Failed > 0 {
		fmt.Fprintf(os.Stderr, "  failed: %d\n", stats.Failed)
	}

	if llmEnabled {
		if err := printSummary(ctx, cfg, stats); err != nil {
			fmt.Fprintf(os.Stderr, "LLM summary unavailable: %v\n", err)
		}
	}
	return nil
}
