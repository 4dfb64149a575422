package buynow

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ledgerHeader is the column layout of the flat ledger file.
var ledgerHeader = []string{
	"region", "plate_number", "plate_code", "price",
	"first_seen", "last_seen", "status", "sold_at",
}

// ReadLedger loads a ledger CSV. A missing file yields an empty ledger;
// a corrupt file is logged and yields an empty ledger, never an error.
// Individually malformed rows are skipped.
func ReadLedger(path string, logger *zap.Logger) Ledger {
	ledger := Ledger{}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to open ledger, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return ledger
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err != io.EOF {
			logger.Warn("Corrupt ledger, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return ledger
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("Skipping malformed ledger row",
				zap.String("path", path), zap.Error(err))
			continue
		}

		item := &Item{
			Region:      field(row, "region"),
			PlateNumber: field(row, "plate_number"),
			PlateCode:   field(row, "plate_code"),
			Status:      ItemStatus(field(row, "status")),
		}
		if item.PlateNumber == "" && item.PlateCode == "" {
			continue
		}
		if item.Status != ItemSold {
			item.Status = ItemAvailable
		}
		item.Price, _ = strconv.Atoi(field(row, "price"))
		item.FirstSeen = parseTime(field(row, "first_seen"))
		item.LastSeen = parseTime(field(row, "last_seen"))
		if item.Status == ItemSold {
			if ts := parseTime(field(row, "sold_at")); !ts.IsZero() {
				item.SoldAt = &ts
			}
		}

		ledger[Key(item.PlateCode, item.PlateNumber)] = item
	}
	return ledger
}

// WriteLedger persists the full ledger, sold and available items alike,
// sorted by price descending, overwriting the prior file.
func WriteLedger(path string, ledger Ledger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create ledger dir: %w", err)
	}

	items := make([]*Item, 0, len(ledger))
	for _, item := range ledger {
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Price != items[j].Price {
			return items[i].Price > items[j].Price
		}
		return Key(items[i].PlateCode, items[i].PlateNumber) < Key(items[j].PlateCode, items[j].PlateNumber)
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ledgerHeader); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	for _, item := range items {
		soldAt := ""
		if item.SoldAt != nil {
			soldAt = item.SoldAt.Format(time.RFC3339)
		}
		row := []string{
			item.Region,
			item.PlateNumber,
			item.PlateCode,
			strconv.Itoa(item.Price),
			item.FirstSeen.Format(time.RFC3339),
			item.LastSeen.Format(time.RFC3339),
			string(item.Status),
			soldAt,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write ledger: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
