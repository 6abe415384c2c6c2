package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/chpollin/km/internal/cache"
	"github.com/chpollin/km/internal/harvest"
	"github.com/chpollin/km/internal/store"
)

var (
	harvestOut     string
	harvestWorkers int
	harvestRate    float64
	harvestTimeout time.Duration
	harvestNoCache bool
	noRobots       bool
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Download the collection from the GAMS repository",
	Long: `Harvest downloads both contexts (karteikarten, objekte) of the collection:
object ids, content models, TEI/LIDO sources, RDF datastreams and scan
images. Responses are cached, so interrupted runs resume cheaply.

The run produces <out>/metadata/all_objects.json, the input of 'km enrich'.

Example:
  km harvest --out km_archive
  km harvest --out km_archive --workers 8 --rate 4`,
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	harvestCmd.Flags().StringVar(&harvestOut, "out", "km_archive", "output directory")
	harvestCmd.Flags().IntVar(&harvestWorkers, "workers", 0, "concurrent downloads (0: config default)")
	harvestCmd.Flags().Float64Var(&harvestRate, "rate", 0, "requests per second (0: config default)")
	harvestCmd.Flags().DurationVar(&harvestTimeout, "timeout", 0, "per-request timeout (0: config default)")
	harvestCmd.Flags().BoolVar(&harvestNoCache, "no-cache", false, "disable the response cache")
	harvestCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if harvestWorkers > 0 {
		cfg.Concurrency.Workers = harvestWorkers
	}
	if harvestRate > 0 {
		cfg.RateLimit.RequestsPerSecond = harvestRate
	}
	if harvestTimeout > 0 {
		cfg.HTTP.Timeout = harvestTimeout
	}
	if harvestNoCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.RateLimit.RespectRobots = false
	}

	logsDir := filepath.Join(harvestOut, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(logsDir, "harvest.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	defer log.SetOutput(os.Stderr)

	var responses cache.Cache
	if cfg.Cache.Enabled {
		responses = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	client := harvest.NewClient(cfg, responses, log)
	harvester := harvest.NewHarvester(client, cfg, harvestOut, log)

	fmt.Fprintf(os.Stderr, "Harvesting %s into %s\n", cfg.HTTP.BaseURL, harvestOut)
	records, summary, err := harvester.Run(context.Background())
	if err != nil {
		return err
	}

	jsonPath := filepath.Join(harvestOut, "metadata", "all_objects.json")
	if err := store.WriteJSON(jsonPath, records); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}
	csvPath := filepath.Join(harvestOut, "metadata", "all_objects.csv")
	if err := store.WriteRecordsCSV(csvPath, records); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	fmt.Fprintf(os.Stderr, "\nHarvest finished in %s\n", summary.Finished.Sub(summary.Started).Round(time.Second))
	fmt.Fprintf(os.Stderr, "  objects: %d (TEI %d, LIDO %d)\n", summary.Total, summary.TEI, summary.LIDO)
	fmt.Fprintf(os.Stderr, "  RDF: %d, images: %d, failed: %d\n", summary.RDF, summary.Images, summary.Failed)
	fmt.Fprintf(os.Stderr, "  records: %s\n", jsonPath)
	return nil
}
