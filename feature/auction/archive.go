package auction

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"plate-tracker/feature/auction/models"

	"go.uber.org/zap"
)

// finalCSVHeader is the column layout of the finalized auction export.
var finalCSVHeader = []string{
	"region", "plate_number", "plate_code", "final_price", "bid_count",
	"first_seen", "completed_at", "price_change_count",
}

// ArchiveResult holds the paths produced by archiving a session.
type ArchiveResult struct {
	CSVPath    string    `json:"csv_path"`
	JSONPath   string    `json:"json_path"`
	ArchivedAt time.Time `json:"archived_at"`
}

// Archive finalizes the session: writes the price-ranked CSV export, moves
// the tracking JSON to a timestamped archive path, and replaces the live
// state with a fresh session so the region's tracking file always represents
// the current auction.
//
// Intended to be called when IsComplete() is true; this is the caller's
// responsibility and not verified here.
func (t *Tracker) Archive() (*ArchiveResult, error) {
	now := t.now()

	csvPath, err := t.writeFinalCSV(now)
	if err != nil {
		return nil, err
	}
	t.session.Status = models.SessionCompleted
	t.session.FinalCSV = csvPath
	if err := t.store.Save(t.session, now); err != nil {
		return nil, err
	}

	jsonPath := filepath.Join(t.cfg.ArchiveDir,
		fmt.Sprintf("tracking_%s_%s.json", t.region.Key, now.Format("2006-01-02_150405")))

	archivedAt := now
	t.session.Status = models.SessionArchived
	t.session.ArchivedAt = &archivedAt
	if err := t.store.Save(t.session, now); err != nil {
		return nil, err
	}
	if err := t.store.MoveTo(jsonPath); err != nil {
		return nil, err
	}

	t.logger.Info("Auction archived",
		zap.String("region", t.region.Key),
		zap.String("auction_id", t.session.AuctionID),
		zap.String("csv", csvPath),
		zap.String("json", jsonPath),
	)

	// The live tracking file must never represent a terminal auction.
	t.session = models.NewSession(t.region.Key, t.region.DisplayName, t.now())
	if err := t.Save(); err != nil {
		return nil, err
	}

	return &ArchiveResult{
		CSVPath:    csvPath,
		JSONPath:   jsonPath,
		ArchivedAt: archivedAt,
	}, nil
}

// writeFinalCSV writes all lots ranked by final price (descending, ties
// broken by lot ID for determinism) to the archive directory.
func (t *Tracker) writeFinalCSV(now time.Time) (string, error) {
	if err := os.MkdirAll(t.cfg.ArchiveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive dir: %w", err)
	}
	path := filepath.Join(t.cfg.ArchiveDir,
		fmt.Sprintf("%s_%s.csv", t.region.Key, now.Format("2006-01-02")))

	type ranked struct {
		id  string
		lot *models.Lot
	}
	lots := make([]ranked, 0, len(t.session.Plates))
	for id, lot := range t.session.Plates {
		lots = append(lots, ranked{id: id, lot: lot})
	}
	sort.SliceStable(lots, func(i, j int) bool {
		pi, pj := lots[i].lot.EffectiveFinalPrice(), lots[j].lot.EffectiveFinalPrice()
		if pi != pj {
			return pi > pj
		}
		return lots[i].id < lots[j].id
	})

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create final csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(finalCSVHeader); err != nil {
		return "", fmt.Errorf("failed to write final csv: %w", err)
	}
	for _, r := range lots {
		lot := r.lot
		completedAt := ""
		if lot.CompletedAt != nil {
			completedAt = lot.CompletedAt.Format(time.RFC3339)
		}
		row := []string{
			t.region.DisplayName,
			lot.PlateNumber,
			lot.PlateCode,
			strconv.Itoa(lot.EffectiveFinalPrice()),
			strconv.Itoa(lot.BidCount),
			lot.FirstSeen.Format(time.RFC3339),
			completedAt,
			strconv.Itoa(lot.PriceChanges()),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write final csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write final csv: %w", err)
	}
	return path, nil
}
