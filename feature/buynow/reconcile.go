package buynow

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"plate-tracker/feature/market"

	"go.uber.org/zap"
)

// Archive reasons reported by a reconciliation.
const (
	// ReasonAllSold means every tracked item has sold.
	ReasonAllSold = "all_sold"
	// ReasonListEmpty means the incoming snapshot was empty while the
	// ledger had pre-existing data.
	ReasonListEmpty = "list_empty"
)

// Reconciler owns one region's Buy-Now ledger.
type Reconciler struct {
	cfg    Config
	region market.Region
	logger *zap.Logger
	now    func() time.Time
}

// NewReconciler creates a reconciler for a region.
func NewReconciler(cfg Config, region market.Region, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		cfg:    cfg,
		region: region,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Result is the outcome of one ledger reconciliation.
type Result struct {
	// LedgerPath is the live ledger file that was written.
	LedgerPath string `json:"ledger_path"`
	// ShouldArchive signals that the caller should archive the ledger.
	ShouldArchive bool `json:"should_archive"`
	// Reason is ReasonAllSold or ReasonListEmpty when ShouldArchive is set.
	Reason string `json:"reason,omitempty"`
	// AvailableBefore is the available count before the merge.
	AvailableBefore int `json:"available_before"`
	// AvailableAfter is the available count after the merge.
	AvailableAfter int `json:"available_after"`
	// TotalItems is the full ledger size, sold items included.
	TotalItems int `json:"total_items"`
}

// Reconcile merges a snapshot of currently-available items into the ledger
// and persists it. Presence flips items to available (reviving stale sold
// marks), absence flips available items to sold. Archival is signaled when
// the ledger had pre-existing data and either everything sold or the
// snapshot came back empty; a first-ever empty snapshot on a never-seen
// ledger signals nothing, there is nothing to archive.
func (r *Reconciler) Reconcile(items []market.BuyNowItem) (*Result, error) {
	now := r.now()
	path := r.cfg.LedgerFile(r.region.Key)

	ledger := ReadLedger(path, r.logger)
	hadExistingData := len(ledger) > 0
	availableBefore := ledger.CountAvailable()

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := Key(item.PlateCode, item.PlateNumber)
		seen[key] = struct{}{}

		existing, ok := ledger[key]
		if !ok {
			ledger[key] = &Item{
				Region:      r.region.DisplayName,
				PlateNumber: item.PlateNumber,
				PlateCode:   item.PlateCode,
				Price:       item.Price,
				FirstSeen:   now,
				LastSeen:    now,
				Status:      ItemAvailable,
			}
			continue
		}
		existing.Price = item.Price
		existing.LastSeen = now
		if existing.Status == ItemSold {
			// Re-listing overrides a stale sold mark.
			existing.Status = ItemAvailable
			existing.SoldAt = nil
		}
	}

	for key, item := range ledger {
		if item.Status != ItemAvailable {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		soldAt := now
		item.Status = ItemSold
		item.SoldAt = &soldAt
	}

	availableAfter := ledger.CountAvailable()
	allSold := hadExistingData && availableAfter == 0
	listEmpty := hadExistingData && len(items) == 0

	result := &Result{
		LedgerPath:      path,
		AvailableBefore: availableBefore,
		AvailableAfter:  availableAfter,
		TotalItems:      len(ledger),
	}
	switch {
	case allSold:
		result.ShouldArchive = true
		result.Reason = ReasonAllSold
	case listEmpty:
		result.ShouldArchive = true
		result.Reason = ReasonListEmpty
	}

	if err := WriteLedger(path, ledger); err != nil {
		return nil, err
	}
	return result, nil
}

// Archive copies the live ledger to a timestamped archive path. The live
// file is retained so reappearing items stay recognized as already seen.
// Returns an empty path when there is no ledger file to archive.
func (r *Reconciler) Archive() (string, error) {
	src := r.cfg.LedgerFile(r.region.Key)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat ledger: %w", err)
	}

	if err := os.MkdirAll(r.cfg.ArchiveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive dir: %w", err)
	}
	dst := filepath.Join(r.cfg.ArchiveDir,
		fmt.Sprintf("%s_buynow_%s.csv", r.region.Key, r.now().Format("2006-01-02_150405")))

	if err := copyFile(src, dst); err != nil {
		return "", err
	}

	r.logger.Info("Buy-Now ledger archived",
		zap.String("region", r.region.Key),
		zap.String("path", dst),
	)
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
