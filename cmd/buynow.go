package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"plate-tracker/core/config"
	"plate-tracker/core/logger"
	"plate-tracker/feature/buynow"
	"plate-tracker/feature/market"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var buynowRegion string

const (
	// statusUnavailable means the region has no Buy-Now listing right now.
	statusUnavailable = "unavailable"
	// statusNoSection means the region has no Buy-Now section at all.
	statusNoSection = "no_section"
)

// buynowRegionReport is the per-region outcome of one Buy-Now pass.
type buynowRegionReport struct {
	Region          string `json:"region"`
	Status          string `json:"status"`
	AvailableBefore int    `json:"available_before,omitempty"`
	AvailableAfter  int    `json:"available_after,omitempty"`
	TotalItems      int    `json:"total_items,omitempty"`
	Archived        bool   `json:"archived,omitempty"`
	ArchiveReason   string `json:"archive_reason,omitempty"`
	ArchivePath     string `json:"archive_path,omitempty"`
	Error           string `json:"error,omitempty"`
}

// buynowCmd runs one Buy-Now ledger pass over the regions that have fixed
// price listings.
var buynowCmd = &cobra.Command{
	Use:   "buynow",
	Short: "Poll Buy-Now listings and reconcile the per-region ledgers",
	Long: `Fetches the fixed-price inventory for each region that offers it,
merges it into the persisted ledger (absence marks items sold), and copies
the ledger to the archive when everything has sold or the listing cleared.

Examples:
  # Reconcile all Buy-Now regions
  plate-tracker buynow

  # Reconcile a single region
  plate-tracker buynow --region abudhabi`,
	RunE: runBuynow,
}

func init() {
	buynowCmd.Flags().StringVar(&buynowRegion, "region", "", "Reconcile only this region key")
	RootCmd.AddCommand(buynowCmd)
}

func runBuynow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	l = l.With(zap.String("run_id", uuid.NewString()))

	regions, err := selectRegions(buynowRegion)
	if err != nil {
		return err
	}

	mirror := newMirror(ctx, cfg.Storage, l)
	client := market.NewClient(cfg.Market, l)

	var reports []buynowRegionReport
	for _, region := range regions {
		if !region.HasBuyNow() {
			reports = append(reports, buynowRegionReport{Region: region.Key, Status: statusNoSection})
			continue
		}
		rr := buynowRegionReport{Region: region.Key}
		rl := l.With(zap.String("region", region.Key))

		snapshot, err := client.FetchBuyNowSnapshot(ctx, region)
		if err != nil {
			rl.Error("Buy-Now fetch failed, skipping region", zap.Error(err))
			rr.Status = statusError
			rr.Error = err.Error()
			reports = append(reports, rr)
			continue
		}
		if !snapshot.IsAvailable {
			rr.Status = statusUnavailable
			reports = append(reports, rr)
			continue
		}

		reconciler := buynow.NewReconciler(cfg.BuyNow, region, rl)
		result, err := reconciler.Reconcile(snapshot.Items)
		if err != nil {
			rl.Error("Failed to persist Buy-Now ledger", zap.Error(err))
			rr.Status = statusError
			rr.Error = err.Error()
			reports = append(reports, rr)
			continue
		}

		rr.Status = statusActive
		rr.AvailableBefore = result.AvailableBefore
		rr.AvailableAfter = result.AvailableAfter
		rr.TotalItems = result.TotalItems

		rl.Info("Buy-Now ledger reconciled",
			zap.Int("available_before", result.AvailableBefore),
			zap.Int("available_after", result.AvailableAfter),
			zap.Int("total", result.TotalItems),
		)

		if result.ShouldArchive {
			path, err := reconciler.Archive()
			if err != nil {
				rl.Error("Failed to archive Buy-Now ledger", zap.Error(err))
				rr.Status = statusError
				rr.Error = err.Error()
				reports = append(reports, rr)
				continue
			}
			rr.Status = statusCompleted
			rr.Archived = path != ""
			rr.ArchiveReason = result.Reason
			rr.ArchivePath = path

			if mirror != nil && path != "" {
				mirror.UploadAll(ctx, region.Key, []string{path})
			}
		}
		reports = append(reports, rr)
	}

	raw, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(raw))

	l.Info("Buy-Now pass finished", zap.Int("regions", len(reports)))
	return nil
}
