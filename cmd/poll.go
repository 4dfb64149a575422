package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"plate-tracker/core/config"
	"plate-tracker/core/logger"
	"plate-tracker/core/storage"
	"plate-tracker/feature/auction"
	"plate-tracker/feature/market"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pollRegion string

// Region statuses reported by one poll pass.
const (
	statusActive    = "active"
	statusCompleted = "completed"
	statusNoAuction = "no_auction"
	statusError     = "error"
)

// regionReport is the per-region outcome of one poll pass.
type regionReport struct {
	Region        string `json:"region"`
	Status        string `json:"status"`
	NewLots       int    `json:"new_lots,omitempty"`
	UpdatedLots   int    `json:"updated_lots,omitempty"`
	CompletedLots int    `json:"completed_lots,omitempty"`
	ActiveCount   int    `json:"active_count,omitempty"`
	TotalCount    int    `json:"total_count,omitempty"`
	IsFinalHours  bool   `json:"is_final_hours,omitempty"`
	CSVPath       string `json:"csv_path,omitempty"`
	Error         string `json:"error,omitempty"`
}

// pollReport is the machine-readable summary printed after a pass, used by
// cron wrappers to switch to rapid polling.
type pollReport struct {
	RunID     string         `json:"run_id"`
	RapidMode bool           `json:"rapid_mode"`
	Regions   []regionReport `json:"regions"`
}

// pollCmd runs one reconciliation pass over the auction regions.
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll auction listings and reconcile tracking state",
	Long: `Fetches the current auction snapshot for each region, merges it into
the persisted tracking session, and archives sessions whose lots have all
completed. Prints a JSON summary; rapid_mode is set when any region is in
its final hours.

Examples:
  # Poll all regions
  plate-tracker poll

  # Poll a single region
  plate-tracker poll --region dubai`,
	RunE: runPoll,
}

func init() {
	pollCmd.Flags().StringVar(&pollRegion, "region", "", "Poll only this region key")
	RootCmd.AddCommand(pollCmd)
}

func runPoll(cmd *cobra.Command, args []string) error {
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

	runID := uuid.NewString()
	l = l.With(zap.String("run_id", runID))

	regions, err := selectRegions(pollRegion)
	if err != nil {
		return err
	}

	mirror := newMirror(ctx, cfg.Storage, l)
	client := market.NewClient(cfg.Market, l)

	report := pollReport{RunID: runID}
	var hadError bool

	for _, region := range regions {
		rr := pollRegionPass(ctx, cfg, client, mirror, region, l)
		if rr.Status == statusError {
			hadError = true
		}
		if rr.IsFinalHours {
			report.RapidMode = true
		}
		report.Regions = append(report.Regions, rr)
	}

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode poll report: %w", err)
	}
	fmt.Println(string(raw))

	l.Info("Poll pass finished",
		zap.Int("regions", len(report.Regions)),
		zap.Bool("rapid_mode", report.RapidMode),
		zap.Bool("had_error", hadError),
	)
	return nil
}

// pollRegionPass reconciles one region. Fetch failures skip the region
// without touching its state; write failures surface in the report.
func pollRegionPass(ctx context.Context, cfg *config.Config, client *market.Client, mirror *storage.Mirror, region market.Region, l *zap.Logger) regionReport {
	rr := regionReport{Region: region.Key}
	rl := l.With(zap.String("region", region.Key))

	snapshot, err := client.FetchAuctionSnapshot(ctx, region)
	if err != nil {
		rl.Error("Auction fetch failed, skipping region", zap.Error(err))
		rr.Status = statusError
		rr.Error = err.Error()
		return rr
	}

	tracker := auction.NewTracker(cfg.Auction, region, rl)

	if !snapshot.IsActive && len(tracker.Session().Plates) == 0 {
		// The platform reports no auction and we track nothing; leave the
		// (possibly absent) state file untouched.
		rr.Status = statusNoAuction
		return rr
	}

	// An inactive signal on a session with tracked lots is treated as an
	// empty snapshot so the remaining actives complete.
	result := tracker.Update(snapshot.Lots)
	if err := tracker.Save(); err != nil {
		rl.Error("Failed to persist tracking state", zap.Error(err))
		rr.Status = statusError
		rr.Error = err.Error()
		return rr
	}

	rr.NewLots = result.NewLots
	rr.UpdatedLots = result.UpdatedLots
	rr.CompletedLots = result.CompletedLots
	rr.ActiveCount = result.ActiveCount
	rr.TotalCount = result.TotalCount
	rr.IsFinalHours = result.IsFinalHours

	rl.Info("Region reconciled",
		zap.Int("new", result.NewLots),
		zap.Int("updated", result.UpdatedLots),
		zap.Int("completed", result.CompletedLots),
		zap.Int("active", result.ActiveCount),
		zap.Bool("final_hours", result.IsFinalHours),
	)

	if !tracker.IsComplete() {
		rr.Status = statusActive
		return rr
	}

	archived, err := tracker.Archive()
	if err != nil {
		rl.Error("Failed to archive completed auction", zap.Error(err))
		rr.Status = statusError
		rr.Error = err.Error()
		return rr
	}
	rr.Status = statusCompleted
	rr.CSVPath = archived.CSVPath

	if mirror != nil {
		mirror.UploadAll(ctx, region.Key, []string{archived.CSVPath, archived.JSONPath})
	}
	return rr
}

// selectRegions returns all default regions, or just the one named by key.
func selectRegions(key string) ([]market.Region, error) {
	regions := market.DefaultRegions()
	if key == "" {
		return regions, nil
	}
	region, ok := market.RegionByKey(regions, key)
	if !ok {
		return nil, fmt.Errorf("unknown region %q", key)
	}
	return []market.Region{region}, nil
}

// newMirror builds the archive mirror when storage is enabled, or nil.
// Mirror failures are never fatal to a poll pass.
func newMirror(ctx context.Context, cfg storage.Config, l *zap.Logger) *storage.Mirror {
	if !cfg.Enabled {
		return nil
	}
	client, err := storage.NewClient(cfg)
	if err != nil {
		l.Warn("Archive mirror unavailable", zap.Error(err))
		return nil
	}
	mirror := storage.NewMirror(client, cfg.Bucket, l)
	if err := mirror.EnsureBucket(ctx); err != nil {
		l.Warn("Archive mirror bucket unavailable", zap.Error(err))
		return nil
	}
	return mirror
}
