package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"plate-tracker/core/config"
	"plate-tracker/core/logger"
	"plate-tracker/feature/auction"
	"plate-tracker/feature/market"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resetRegion string
	resetYes    bool
)

// resetCmd discards a region's tracking session.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard a region's tracking session and start fresh",
	Long: `Replaces a region's live tracking session with a fresh empty one,
discarding any unarchived data. This is the operator escape hatch for a
wedged session; normal auction turnover goes through archival instead.

Examples:
  # Reset with interactive confirmation
  plate-tracker reset --region dubai

  # Reset non-interactively
  plate-tracker reset --region dubai --yes`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().StringVar(&resetRegion, "region", "", "Region key to reset (required)")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	_ = resetCmd.MarkFlagRequired("region")
	RootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	region, ok := market.RegionByKey(market.DefaultRegions(), resetRegion)
	if !ok {
		return fmt.Errorf("unknown region %q", resetRegion)
	}

	tracker := auction.NewTracker(cfg.Auction, region, l)
	session := tracker.Session()
	l.Info("Current session",
		zap.String("auction_id", session.AuctionID),
		zap.Int("plates", len(session.Plates)),
		zap.Int("active", session.Stats.ActivePlates),
	)

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	if err := tracker.Reset(); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	l.Info("Tracking session reset", zap.String("region", region.Key))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if resetYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm discarding unarchived data: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
