package auction

import (
	"time"

	"plate-tracker/feature/auction/models"
	"plate-tracker/feature/market"

	"go.uber.org/zap"
)

// Tracker owns one region's tracking session and reconciles snapshots into
// it. It is not safe for concurrent use; regions are processed sequentially
// and each region's state is owned by exactly one Tracker.
type Tracker struct {
	cfg     Config
	region  market.Region
	store   *Store
	logger  *zap.Logger
	session *models.Session
	now     func() time.Time
}

// NewTracker creates a tracker for a region, loading persisted state from
// the region's tracking file (or starting fresh if absent or corrupt).
func NewTracker(cfg Config, region market.Region, logger *zap.Logger) *Tracker {
	t := &Tracker{
		cfg:    cfg,
		region: region,
		store:  NewStore(cfg.TrackingFile(region.Key), logger),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	t.session = t.store.Load(region.Key, region.DisplayName, t.now())
	return t
}

// Session returns the in-memory session state.
func (t *Tracker) Session() *models.Session {
	return t.session
}

// UpdateResult is the change report of a single reconciliation.
type UpdateResult struct {
	// NewLots counts lots seen for the first time.
	NewLots int `json:"new_lots"`
	// UpdatedLots counts active lots whose price changed.
	UpdatedLots int `json:"updated_lots"`
	// CompletedLots counts lots that disappeared and completed this round.
	CompletedLots int `json:"completed_lots"`
	// ActiveCount is the number of active lots after the update.
	ActiveCount int `json:"active_count"`
	// TotalCount is the number of lots ever seen this session.
	TotalCount int `json:"total_count"`
	// IsFinalHours is set when any lot's remaining time is below the
	// configured threshold. Absence of time data never sets it.
	IsFinalHours bool `json:"is_final_hours"`
	// MinTimeRemaining is the smallest reported remaining time in seconds,
	// nil when no snapshot record reported one.
	MinTimeRemaining *int64 `json:"min_time_remaining_seconds,omitempty"`
}

// Update merges a snapshot into the session and returns the change report.
// It mutates the session in memory only; Save persists it.
//
// Disappearance is the completion signal: any active lot whose ID is absent
// from the snapshot transitions to completed with its last observed price as
// the final price. Lots already completed are never touched. Duplicate IDs
// within one snapshot are not guarded against; the last observation wins.
func (t *Tracker) Update(lots []market.Lot) UpdateResult {
	now := t.now()
	var result UpdateResult

	seen := make(map[string]struct{}, len(lots))
	var minRemaining *int64

	for _, lot := range lots {
		seen[lot.LotID] = struct{}{}

		existing, ok := t.session.Plates[lot.LotID]
		switch {
		case !ok:
			t.session.Plates[lot.LotID] = &models.Lot{
				PlateNumber:  lot.PlateNumber,
				PlateCode:    lot.PlateCode,
				CurrentPrice: lot.CurrentPrice,
				BidCount:     lot.BidCount,
				FirstSeen:    now,
				LastSeen:     now,
				Status:       models.LotActive,
				PriceHistory: []models.PricePoint{{Price: lot.CurrentPrice, Timestamp: now}},
			}
			result.NewLots++

		case existing.Status == models.LotCompleted:
			// Completed lots are frozen.

		default:
			if existing.CurrentPrice != lot.CurrentPrice {
				existing.PriceHistory = append(existing.PriceHistory, models.PricePoint{
					Price:     lot.CurrentPrice,
					Timestamp: now,
				})
				result.UpdatedLots++
			}
			existing.CurrentPrice = lot.CurrentPrice
			existing.BidCount = lot.BidCount
			existing.LastSeen = now
		}

		if lot.TimeRemaining != nil {
			if minRemaining == nil || *lot.TimeRemaining < *minRemaining {
				v := *lot.TimeRemaining
				minRemaining = &v
			}
		}
	}

	for id, lot := range t.session.Plates {
		if lot.Status != models.LotActive {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		final := lot.CurrentPrice
		completedAt := now
		lot.Status = models.LotCompleted
		lot.FinalPrice = &final
		lot.CompletedAt = &completedAt
		result.CompletedLots++
	}

	t.session.RecomputeStats()
	result.ActiveCount = t.session.Stats.ActivePlates
	result.TotalCount = t.session.Stats.TotalPlatesSeen
	result.MinTimeRemaining = minRemaining
	result.IsFinalHours = minRemaining != nil && *minRemaining < t.cfg.FinalHoursThresholdSeconds

	return result
}

// IsComplete reports whether every tracked lot has completed. Empty sessions
// are never complete.
func (t *Tracker) IsComplete() bool {
	return t.session.IsComplete()
}

// Save persists the current session to the region's tracking file.
func (t *Tracker) Save() error {
	return t.store.Save(t.session, t.now())
}

// Reset discards the session, including unarchived data, and persists a
// fresh one. This is the explicit operator escape hatch, distinct from the
// archival path.
func (t *Tracker) Reset() error {
	t.logger.Warn("Resetting tracking session",
		zap.String("region", t.region.Key),
		zap.String("auction_id", t.session.AuctionID),
	)
	t.session = models.NewSession(t.region.Key, t.region.DisplayName, t.now())
	return t.Save()
}
