package market

// Region describes one auction region and its platform endpoint IDs.
// The table is immutable; reconcilers receive their Region at construction
// instead of reading process-wide state.
type Region struct {
	// Key is the stable region identifier used in file names and logs.
	Key string
	// DisplayName is the human-readable region name used in exports.
	DisplayName string
	// URLSlug is the region path segment on the platform website.
	URLSlug string
	// AuctionTypeID is the platform auction endpoint ID.
	AuctionTypeID int
	// BuyNowTypeID is the platform buy-now endpoint ID. Zero means the
	// region has no Buy-Now section.
	BuyNowTypeID int
}

// HasBuyNow reports whether the region has a Buy-Now section.
func (r Region) HasBuyNow() bool {
	return r.BuyNowTypeID != 0
}

// DefaultRegions returns the built-in region table.
func DefaultRegions() []Region {
	return []Region{
		{Key: "dubai", DisplayName: "Dubai", URLSlug: "dubai", AuctionTypeID: 1, BuyNowTypeID: 22},
		{Key: "abudhabi", DisplayName: "Abu Dhabi", URLSlug: "abu-dhabi", AuctionTypeID: 2, BuyNowTypeID: 23},
		{Key: "sharjah", DisplayName: "Sharjah", URLSlug: "sharjah", AuctionTypeID: 3},
		{Key: "ajman", DisplayName: "Ajman", URLSlug: "ajman", AuctionTypeID: 4, BuyNowTypeID: 24},
		{Key: "umm_al_quwain", DisplayName: "Umm Al Quwain", URLSlug: "umm-al-quwain", AuctionTypeID: 5},
		{Key: "ras_al_khaimah", DisplayName: "Ras Al Khaimah", URLSlug: "ras-al-khaimah", AuctionTypeID: 6},
		{Key: "fujairah", DisplayName: "Fujairah", URLSlug: "fujairah", AuctionTypeID: 7},
	}
}

// RegionByKey looks a region up in the table by its key.
func RegionByKey(regions []Region, key string) (Region, bool) {
	for _, r := range regions {
		if r.Key == key {
			return r, true
		}
	}
	return Region{}, false
}
