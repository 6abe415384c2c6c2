package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chpollin/km/internal/harvest"
	"github.com/chpollin/km/internal/store"
)

var statsDataDir string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Analyze a harvested collection",
	Long: `Stats reads <data-dir>/metadata/all_objects.json and writes a download
analysis (content models, download success rates, descriptive coverage)
to <data-dir>/logs/.

Example:
  km stats --data-dir km_archive`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsDataDir, "data-dir", "km_archive", "harvest output directory")
}

func runStats(cmd *cobra.Command, args []string) error {
	jsonPath := filepath.Join(statsDataDir, "metadata", "all_objects.json")
	records, err := store.ReadRecords(jsonPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", jsonPath, err)
	}

	report := harvest.BuildReport(records)

	logsDir := filepath.Join(statsDataDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return err
	}
	textPath := filepath.Join(logsDir, "download_analysis.txt")
	if err := report.WriteText(textPath); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	csvPath := filepath.Join(logsDir, "download_statistics.csv")
	if err := report.WriteCSV(csvPath); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Analyzed %d records\n", report.Total)
	fmt.Fprintf(os.Stderr, "  TEI %d, LIDO %d, unknown %d\n", report.TEI, report.LIDO, report.Unknown)
	fmt.Fprintf(os.Stderr, "  analysis: %s\n", textPath)
	fmt.Fprintf(os.Stderr, "  statistics: %s\n", csvPath)
	return nil
}
