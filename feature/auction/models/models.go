package models

import (
	"fmt"
	"time"
)

// LotStatus is the lifecycle state of a tracked lot.
type LotStatus string

const (
	// LotActive means the lot is still listed and accepting bids.
	LotActive LotStatus = "active"
	// LotCompleted means the lot disappeared from a snapshot and is frozen.
	LotCompleted LotStatus = "completed"
)

// SessionStatus is the lifecycle state of a tracking session.
type SessionStatus string

const (
	// SessionActive means the session is tracking a running auction.
	SessionActive SessionStatus = "active"
	// SessionCompleted means the final export has been generated.
	SessionCompleted SessionStatus = "completed"
	// SessionArchived means the session has been moved to the archive.
	SessionArchived SessionStatus = "archived"
)

// PricePoint is one observed price with its observation time.
type PricePoint struct {
	Price     int       `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Lot is a single auctioned plate tracked across polls.
//
// A completed lot is frozen: reconciliation never mutates it again, only
// archival or an explicit reset can. PriceHistory is append-only, holds one
// entry per observed price change including the first observation, and its
// last entry equals CurrentPrice while the lot is active.
type Lot struct {
	PlateNumber  string       `json:"plate_number"`
	PlateCode    string       `json:"plate_code"`
	CurrentPrice int          `json:"current_price"`
	BidCount     int          `json:"bid_count"`
	FirstSeen    time.Time    `json:"first_seen"`
	LastSeen     time.Time    `json:"last_seen"`
	Status       LotStatus    `json:"status"`
	FinalPrice   *int         `json:"final_price"`
	CompletedAt  *time.Time   `json:"completed_at"`
	PriceHistory []PricePoint `json:"price_history"`
}

// EffectiveFinalPrice returns the final price for completed lots and the
// current price otherwise.
func (l *Lot) EffectiveFinalPrice() int {
	if l.FinalPrice != nil {
		return *l.FinalPrice
	}
	return l.CurrentPrice
}

// PriceChanges returns the number of observed price changes, excluding the
// first observation.
func (l *Lot) PriceChanges() int {
	n := len(l.PriceHistory) - 1
	if n < 0 {
		return 0
	}
	return n
}

// Stats are the session aggregates. They are derived: recomputed by full
// scan on every update, never incrementally mutated.
type Stats struct {
	TotalPlatesSeen int `json:"total_plates_seen"`
	CompletedPlates int `json:"completed_plates"`
	ActivePlates    int `json:"active_plates"`
}

// Session is one region's auction tracking state.
type Session struct {
	AuctionID   string          `json:"auction_id"`
	Region      string          `json:"region"`
	DisplayName string          `json:"display_name"`
	StartDate   time.Time       `json:"start_date"`
	LastUpdated time.Time       `json:"last_updated"`
	Status      SessionStatus   `json:"status"`
	ArchivedAt  *time.Time      `json:"archived_at,omitempty"`
	FinalCSV    string          `json:"final_csv,omitempty"`
	Plates      map[string]*Lot `json:"plates"`
	Stats       Stats           `json:"stats"`
}

// NewSession creates a fresh active session for a region.
func NewSession(region, displayName string, now time.Time) *Session {
	return &Session{
		AuctionID:   fmt.Sprintf("%s_%s", region, now.Format("2006-01")),
		Region:      region,
		DisplayName: displayName,
		StartDate:   now,
		LastUpdated: now,
		Status:      SessionActive,
		Plates:      map[string]*Lot{},
	}
}

// RecomputeStats rebuilds the aggregates from a full scan of the lots.
func (s *Session) RecomputeStats() {
	stats := Stats{TotalPlatesSeen: len(s.Plates)}
	for _, lot := range s.Plates {
		switch lot.Status {
		case LotActive:
			stats.ActivePlates++
		case LotCompleted:
			stats.CompletedPlates++
		}
	}
	s.Stats = stats
}

// IsComplete reports whether the auction has finished: the session has seen
// at least one lot and every lot is completed. An empty session is never
// complete, so a session that simply has not received data yet cannot be
// archived prematurely.
func (s *Session) IsComplete() bool {
	if len(s.Plates) == 0 {
		return false
	}
	for _, lot := range s.Plates {
		if lot.Status != LotCompleted {
			return false
		}
	}
	return true
}
