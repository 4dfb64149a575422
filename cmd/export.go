package cmd

import (
	"fmt"

	"plate-tracker/core/config"
	"plate-tracker/core/logger"
	"plate-tracker/feature/dashboard"
	"plate-tracker/feature/market"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOutput string

// exportCmd writes the aggregated dashboard JSON to disk.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the aggregated dashboard JSON",
	Long: `Aggregates the live tracking files, Buy-Now ledgers and archive
directories into a single dashboard document and writes it to disk.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path (defaults to the configured dashboard path)")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	path := exportOutput
	if path == "" {
		path = cfg.Dashboard.OutputPath
	}

	aggregator := dashboard.NewAggregator(cfg.Auction, cfg.BuyNow, market.DefaultRegions(), l)
	data, err := aggregator.Export(path)
	if err != nil {
		return err
	}

	l.Info("Dashboard exported",
		zap.String("path", path),
		zap.Int("buynow_regions", len(data.BuyNow)),
		zap.Int("auction_regions", len(data.Auctions)),
		zap.Int("archives", data.Summary.ArchivesCount),
	)
	return nil
}
