package dashboard

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"plate-tracker/feature/auction"
	auctionmodels "plate-tracker/feature/auction/models"
	"plate-tracker/feature/buynow"
	"plate-tracker/feature/market"

	"go.uber.org/zap"
)

// Aggregator reads live and archived tracking files and builds dashboard data.
type Aggregator struct {
	auctionCfg auction.Config
	buynowCfg  buynow.Config
	regions    []market.Region
	logger     *zap.Logger
	now        func() time.Time
}

// NewAggregator creates an aggregator over the configured data directories.
func NewAggregator(auctionCfg auction.Config, buynowCfg buynow.Config, regions []market.Region, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		auctionCfg: auctionCfg,
		buynowCfg:  buynowCfg,
		regions:    regions,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// BuyNowPlate is one ledger row in the dashboard view.
type BuyNowPlate struct {
	PlateNumber string     `json:"plate_number"`
	PlateCode   string     `json:"plate_code"`
	Price       int        `json:"price"`
	Status      string     `json:"status"`
	FirstSeen   time.Time  `json:"first_seen"`
	LastSeen    time.Time  `json:"last_seen"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
}

// BuyNowRegion is one region's live Buy-Now view.
type BuyNowRegion struct {
	Region         string        `json:"region"`
	Available      []BuyNowPlate `json:"available"`
	Sold           []BuyNowPlate `json:"sold"`
	AvailableCount int           `json:"available_count"`
	SoldCount      int           `json:"sold_count"`
	Stats          PriceStats    `json:"stats"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// AuctionPlate is one live auction lot in the dashboard view.
type AuctionPlate struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	PlateCode   string `json:"plate_code"`
	Price       int    `json:"price"`
	BidCount    int    `json:"bid_count"`
	Status      string `json:"status"`
}

// AuctionRegion is one region's live auction view.
type AuctionRegion struct {
	AuctionID   string         `json:"auction_id"`
	Region      string         `json:"region"`
	StartDate   time.Time      `json:"start_date"`
	LastUpdated time.Time      `json:"last_updated"`
	Status      string         `json:"status"`
	Plates      []AuctionPlate `json:"plates"`
	Count       int            `json:"count"`
}

// ArchivedPlate is one row of a finalized auction export.
type ArchivedPlate struct {
	PlateNumber string `json:"plate_number"`
	PlateCode   string `json:"plate_code"`
	FinalPrice  int    `json:"final_price"`
	BidCount    int    `json:"bid_count"`
}

// ArchivedAuction is one finalized auction export.
type ArchivedAuction struct {
	Filename   string          `json:"filename"`
	Region     string          `json:"region"`
	RegionKey  string          `json:"region_key"`
	Date       string          `json:"date"`
	Plates     []ArchivedPlate `json:"plates"`
	Count      int             `json:"count"`
	TotalValue int             `json:"total_value"`
	Stats      PriceStats      `json:"stats"`
}

// ArchivedLedger is one archived Buy-Now ledger copy.
type ArchivedLedger struct {
	Filename   string        `json:"filename"`
	Region     string        `json:"region"`
	RegionKey  string        `json:"region_key"`
	Date       string        `json:"date"`
	Plates     []BuyNowPlate `json:"plates"`
	Count      int           `json:"count"`
	SoldCount  int           `json:"sold_count"`
	TotalValue int           `json:"total_value"`
}

// ArchivedSessionPlate is one lot of an archived tracking session, with its
// full price history.
type ArchivedSessionPlate struct {
	ID           string                     `json:"id"`
	PlateNumber  string                     `json:"plate_number"`
	PlateCode    string                     `json:"plate_code"`
	FinalPrice   int                        `json:"final_price"`
	BidCount     int                        `json:"bid_count"`
	Status       string                     `json:"status"`
	FirstSeen    time.Time                  `json:"first_seen"`
	CompletedAt  *time.Time                 `json:"completed_at,omitempty"`
	PriceHistory []auctionmodels.PricePoint `json:"price_history"`
}

// ArchivedSession is one archived tracking JSON snapshot.
type ArchivedSession struct {
	Filename   string                 `json:"filename"`
	AuctionID  string                 `json:"auction_id"`
	Region     string                 `json:"region"`
	RegionKey  string                 `json:"region_key"`
	ArchivedAt *time.Time             `json:"archived_at,omitempty"`
	StartDate  time.Time              `json:"start_date"`
	Plates     []ArchivedSessionPlate `json:"plates"`
	Count      int                    `json:"count"`
	TotalValue int                    `json:"total_value"`
}

// Summary holds the aggregate totals across all sections.
type Summary struct {
	BuyNowAvailable      int      `json:"buynow_available"`
	BuyNowSold           int      `json:"buynow_sold"`
	BuyNowTotal          int      `json:"buynow_total"`
	AuctionsTotal        int      `json:"auctions_total"`
	ArchivesCount        int      `json:"archives_count"`
	ArchivedBuyNowCount  int      `json:"archived_buynow_count"`
	ArchivedSessionCount int      `json:"archived_tracking_count"`
	BuyNowRegions        []string `json:"buynow_regions"`
	AuctionRegions       []string `json:"auction_regions"`
}

// Data is the full dashboard document.
type Data struct {
	GeneratedAt      time.Time                `json:"generated_at"`
	BuyNow           map[string]BuyNowRegion  `json:"buynow"`
	Auctions         map[string]AuctionRegion `json:"auctions"`
	Archives         []ArchivedAuction        `json:"archives"`
	ArchivedBuyNow   []ArchivedLedger         `json:"archived_buynow"`
	ArchivedTracking []ArchivedSession        `json:"archived_tracking"`
	Summary          Summary                  `json:"summary"`
}

// Build aggregates everything into a dashboard document.
func (a *Aggregator) Build() *Data {
	data := &Data{
		GeneratedAt:      a.now(),
		BuyNow:           a.loadBuyNow(),
		Auctions:         a.loadAuctions(),
		Archives:         a.loadArchivedAuctions(),
		ArchivedBuyNow:   a.loadArchivedLedgers(),
		ArchivedTracking: a.loadArchivedSessions(),
	}

	s := &data.Summary
	for key, region := range data.BuyNow {
		s.BuyNowAvailable += region.AvailableCount
		s.BuyNowSold += region.SoldCount
		s.BuyNowRegions = append(s.BuyNowRegions, key)
	}
	s.BuyNowTotal = s.BuyNowAvailable + s.BuyNowSold
	for key, region := range data.Auctions {
		s.AuctionsTotal += region.Count
		s.AuctionRegions = append(s.AuctionRegions, key)
	}
	sort.Strings(s.BuyNowRegions)
	sort.Strings(s.AuctionRegions)
	s.ArchivesCount = len(data.Archives)
	s.ArchivedBuyNowCount = len(data.ArchivedBuyNow)
	s.ArchivedSessionCount = len(data.ArchivedTracking)

	return data
}

// Export builds the dashboard document and writes it to the given path.
func (a *Aggregator) Export(path string) (*Data, error) {
	data := a.Build()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode dashboard data: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write dashboard data: %w", err)
	}
	return data, nil
}

// loadBuyNow reads every region's live ledger, splitting available and sold.
func (a *Aggregator) loadBuyNow() map[string]BuyNowRegion {
	out := map[string]BuyNowRegion{}

	for _, region := range a.regions {
		path := a.buynowCfg.LedgerFile(region.Key)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		ledger := buynow.ReadLedger(path, a.logger)
		if len(ledger) == 0 {
			continue
		}

		view := BuyNowRegion{Region: region.DisplayName}
		var pricedAvailable []PricedPlate
		for _, item := range ledger {
			plate := toBuyNowPlate(item)
			if item.Status == buynow.ItemSold {
				view.Sold = append(view.Sold, plate)
			} else {
				view.Available = append(view.Available, plate)
				pricedAvailable = append(pricedAvailable, PricedPlate{Number: item.PlateNumber, Price: item.Price})
			}
			if item.LastSeen.After(view.LastUpdated) {
				view.LastUpdated = item.LastSeen
			}
		}
		sort.SliceStable(view.Available, func(i, j int) bool { return view.Available[i].Price > view.Available[j].Price })
		sort.SliceStable(view.Sold, func(i, j int) bool {
			ti, tj := view.Sold[i].SoldAt, view.Sold[j].SoldAt
			if ti == nil || tj == nil {
				return tj == nil && ti != nil
			}
			return ti.After(*tj)
		})
		view.AvailableCount = len(view.Available)
		view.SoldCount = len(view.Sold)
		view.Stats = ComputePriceStats(pricedAvailable)

		out[region.Key] = view
	}
	return out
}

// loadAuctions reads every region's live tracking session, keeping active ones.
func (a *Aggregator) loadAuctions() map[string]AuctionRegion {
	out := map[string]AuctionRegion{}

	for _, region := range a.regions {
		path := a.auctionCfg.TrackingFile(region.Key)
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var session auctionmodels.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			a.logger.Warn("Skipping corrupt tracking file",
				zap.String("path", path), zap.Error(err))
			continue
		}
		if session.Status != auctionmodels.SessionActive {
			continue
		}

		view := AuctionRegion{
			AuctionID:   session.AuctionID,
			Region:      session.DisplayName,
			StartDate:   session.StartDate,
			LastUpdated: session.LastUpdated,
			Status:      string(session.Status),
			Count:       len(session.Plates),
		}
		for id, lot := range session.Plates {
			view.Plates = append(view.Plates, AuctionPlate{
				ID:          id,
				PlateNumber: lot.PlateNumber,
				PlateCode:   lot.PlateCode,
				Price:       lot.CurrentPrice,
				BidCount:    lot.BidCount,
				Status:      string(lot.Status),
			})
		}
		sort.SliceStable(view.Plates, func(i, j int) bool { return view.Plates[i].Price > view.Plates[j].Price })

		out[region.Key] = view
	}
	return out
}

// loadArchivedAuctions reads the finalized auction CSV exports.
func (a *Aggregator) loadArchivedAuctions() []ArchivedAuction {
	var archives []ArchivedAuction

	entries, err := os.ReadDir(a.auctionCfg.ArchiveDir)
	if err != nil {
		return archives
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") || strings.HasPrefix(name, "tracking_") {
			continue
		}
		regionKey, date := a.splitArchiveName(strings.TrimSuffix(name, ".csv"), "")
		plates, err := readArchivedAuctionCSV(filepath.Join(a.auctionCfg.ArchiveDir, name))
		if err != nil {
			a.logger.Warn("Skipping unreadable archive",
				zap.String("file", name), zap.Error(err))
			continue
		}
		sort.SliceStable(plates, func(i, j int) bool { return plates[i].FinalPrice > plates[j].FinalPrice })

		archive := ArchivedAuction{
			Filename:  name,
			Region:    a.displayName(regionKey),
			RegionKey: regionKey,
			Date:      date,
			Plates:    plates,
			Count:     len(plates),
		}
		var priced []PricedPlate
		for _, p := range plates {
			archive.TotalValue += p.FinalPrice
			priced = append(priced, PricedPlate{Number: p.PlateNumber, Price: p.FinalPrice})
		}
		archive.Stats = ComputePriceStats(priced)
		archives = append(archives, archive)
	}

	sort.SliceStable(archives, func(i, j int) bool { return archives[i].Date > archives[j].Date })
	return archives
}

// loadArchivedLedgers reads the archived Buy-Now ledger copies.
func (a *Aggregator) loadArchivedLedgers() []ArchivedLedger {
	var archives []ArchivedLedger

	entries, err := os.ReadDir(a.buynowCfg.ArchiveDir)
	if err != nil {
		return archives
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		regionKey, date := a.splitArchiveName(strings.TrimSuffix(name, ".csv"), "buynow_")
		ledger := buynow.ReadLedger(filepath.Join(a.buynowCfg.ArchiveDir, name), a.logger)

		archive := ArchivedLedger{
			Filename:  name,
			Region:    a.displayName(regionKey),
			RegionKey: regionKey,
			Date:      date,
		}
		for _, item := range ledger {
			archive.Plates = append(archive.Plates, toBuyNowPlate(item))
			archive.TotalValue += item.Price
			if item.Status == buynow.ItemSold {
				archive.SoldCount++
			}
		}
		sort.SliceStable(archive.Plates, func(i, j int) bool { return archive.Plates[i].Price > archive.Plates[j].Price })
		archive.Count = len(archive.Plates)
		archives = append(archives, archive)
	}

	sort.SliceStable(archives, func(i, j int) bool { return archives[i].Date > archives[j].Date })
	return archives
}

// loadArchivedSessions reads the archived tracking JSON snapshots, which
// carry the full per-lot price history.
func (a *Aggregator) loadArchivedSessions() []ArchivedSession {
	var archives []ArchivedSession

	entries, err := os.ReadDir(a.auctionCfg.ArchiveDir)
	if err != nil {
		return archives
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "tracking_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(a.auctionCfg.ArchiveDir, name))
		if err != nil {
			continue
		}
		var session auctionmodels.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			a.logger.Warn("Skipping corrupt archived session",
				zap.String("file", name), zap.Error(err))
			continue
		}

		archive := ArchivedSession{
			Filename:   name,
			AuctionID:  session.AuctionID,
			Region:     session.DisplayName,
			RegionKey:  session.Region,
			ArchivedAt: session.ArchivedAt,
			StartDate:  session.StartDate,
			Count:      len(session.Plates),
		}
		for id, lot := range session.Plates {
			final := lot.EffectiveFinalPrice()
			archive.Plates = append(archive.Plates, ArchivedSessionPlate{
				ID:           id,
				PlateNumber:  lot.PlateNumber,
				PlateCode:    lot.PlateCode,
				FinalPrice:   final,
				BidCount:     lot.BidCount,
				Status:       string(lot.Status),
				FirstSeen:    lot.FirstSeen,
				CompletedAt:  lot.CompletedAt,
				PriceHistory: lot.PriceHistory,
			})
			archive.TotalValue += final
		}
		sort.SliceStable(archive.Plates, func(i, j int) bool { return archive.Plates[i].FinalPrice > archive.Plates[j].FinalPrice })
		archives = append(archives, archive)
	}

	sort.SliceStable(archives, func(i, j int) bool {
		ti, tj := archives[i].ArchivedAt, archives[j].ArchivedAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})
	return archives
}

// splitArchiveName splits an archive file stem into region key and date.
// Region keys can contain underscores, so the split matches against the
// region table instead of cutting at the first separator.
func (a *Aggregator) splitArchiveName(stem, infix string) (regionKey, date string) {
	for _, region := range a.regions {
		prefix := region.Key + "_" + infix
		if strings.HasPrefix(stem, prefix) {
			return region.Key, strings.TrimPrefix(stem, prefix)
		}
	}
	return "unknown", stem
}

func (a *Aggregator) displayName(regionKey string) string {
	if region, ok := market.RegionByKey(a.regions, regionKey); ok {
		return region.DisplayName
	}
	return regionKey
}

func toBuyNowPlate(item *buynow.Item) BuyNowPlate {
	return BuyNowPlate{
		PlateNumber: item.PlateNumber,
		PlateCode:   item.PlateCode,
		Price:       item.Price,
		Status:      string(item.Status),
		FirstSeen:   item.FirstSeen,
		LastSeen:    item.LastSeen,
		SoldAt:      item.SoldAt,
	}
}

// readArchivedAuctionCSV parses one finalized auction export.
func readArchivedAuctionCSV(path string) ([]ArchivedPlate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
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

	var plates []ArchivedPlate
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		plate := ArchivedPlate{
			PlateNumber: field(row, "plate_number"),
			PlateCode:   field(row, "plate_code"),
		}
		plate.FinalPrice, _ = strconv.Atoi(field(row, "final_price"))
		plate.BidCount, _ = strconv.Atoi(field(row, "bid_count"))
		plates = append(plates, plate)
	}
	return plates, nil
}
