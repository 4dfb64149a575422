package market

import "time"

// Lot is one auctioned plate as reported by a single poll.
type Lot struct {
	// LotID is the stable platform identifier for the lot.
	LotID string `json:"lot_id"`
	// PlateNumber is the plate's number part.
	PlateNumber string `json:"plate_number"`
	// PlateCode is the plate's letter code.
	PlateCode string `json:"plate_code"`
	// CurrentPrice is the current bid price.
	CurrentPrice int `json:"current_price"`
	// BidCount is the number of bids placed so far.
	BidCount int `json:"bid_count"`
	// TimeRemaining is the remaining auction time in seconds, when the
	// platform reports an end date for the lot.
	TimeRemaining *int64 `json:"time_remaining_seconds,omitempty"`
	// EndDate is the lot's scheduled end, when reported.
	EndDate *time.Time `json:"end_date,omitempty"`
}

// AuctionSnapshot is one point-in-time list of currently-listed auction lots.
type AuctionSnapshot struct {
	// Lots are the parsed lot records.
	Lots []Lot `json:"lots"`
	// TotalCount is the platform-reported total, which can exceed len(Lots)
	// when the page size truncates the listing.
	TotalCount int `json:"total_count"`
	// IsActive reports whether the region has a running auction at all.
	// False means "no auction", which is distinct from an active auction
	// that currently lists zero lots.
	IsActive bool `json:"is_active"`
}

// BuyNowItem is one fixed-price plate as reported by a single poll.
type BuyNowItem struct {
	// ID is the platform identifier. It is not stable across listings, so
	// the buy-now ledger keys items by plate code + number instead.
	ID string `json:"id"`
	// PlateNumber is the plate's number part.
	PlateNumber string `json:"plate_number"`
	// PlateCode is the plate's letter code.
	PlateCode string `json:"plate_code"`
	// Price is the fixed buy-now price.
	Price int `json:"price"`
}

// BuyNowSnapshot is one point-in-time list of currently-available buy-now items.
type BuyNowSnapshot struct {
	// Items are the parsed item records.
	Items []BuyNowItem `json:"items"`
	// TotalCount is the number of parsed items.
	TotalCount int `json:"total_count"`
	// IsAvailable reports whether the region currently has a buy-now listing.
	IsAvailable bool `json:"is_available"`
}
