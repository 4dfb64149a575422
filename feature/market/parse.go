package market

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// flexString unmarshals JSON values that the platform serves inconsistently
// as either strings or numbers (plate numbers, codes, IDs).
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// lotResponse mirrors the platform's paged listing envelope.
type lotResponse struct {
	Data       []lotRecord `json:"Data"`
	TotalCount int         `json:"TotalCount"`
}

// lotRecord is a single raw lot/item from the platform listing.
type lotRecord struct {
	ID               flexString `json:"Id"`
	PlateNumber      flexString `json:"PlateNumber"`
	PlateCode        flexString `json:"PlateCode"`
	CurrentPriceStr  flexString `json:"CurrentPriceStr"`
	CurrentPrice     int        `json:"CurrentPrice"`
	Bids             int        `json:"Bids"`
	EndDateTimestamp int64      `json:"EndDateTimestamp"`
}

// price resolves the record price. The formatted string field is
// authoritative on the platform; the numeric field is the fallback.
func (r lotRecord) price() int {
	s := strings.NewReplacer(",", "", " ", "").Replace(string(r.CurrentPriceStr))
	if s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return r.CurrentPrice
}

// parseAuctionResponse parses a raw auction listing body into a snapshot.
// Records without a lot ID are skipped; they never abort the snapshot.
// The caller owns the IsActive flag on the returned snapshot.
func parseAuctionResponse(body []byte, now time.Time) (*AuctionSnapshot, error) {
	var resp lotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	lots := make([]Lot, 0, len(resp.Data))
	for _, rec := range resp.Data {
		if rec.ID == "" {
			continue
		}
		lot := Lot{
			LotID:        string(rec.ID),
			PlateNumber:  string(rec.PlateNumber),
			PlateCode:    string(rec.PlateCode),
			CurrentPrice: rec.price(),
			BidCount:     rec.Bids,
		}
		if rec.EndDateTimestamp > 0 {
			end := time.Unix(rec.EndDateTimestamp, 0).UTC()
			remaining := int64(end.Sub(now).Seconds())
			if remaining < 0 {
				remaining = 0
			}
			lot.EndDate = &end
			lot.TimeRemaining = &remaining
		}
		lots = append(lots, lot)
	}

	totalCount := resp.TotalCount
	if totalCount == 0 {
		totalCount = len(lots)
	}

	return &AuctionSnapshot{
		Lots:       lots,
		TotalCount: totalCount,
		IsActive:   true,
	}, nil
}

// parseBuyNowResponse parses a raw buy-now listing body into a snapshot.
func parseBuyNowResponse(body []byte) (*BuyNowSnapshot, error) {
	var resp lotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	items := make([]BuyNowItem, 0, len(resp.Data))
	for _, rec := range resp.Data {
		if rec.ID == "" {
			continue
		}
		items = append(items, BuyNowItem{
			ID:          string(rec.ID),
			PlateNumber: string(rec.PlateNumber),
			PlateCode:   string(rec.PlateCode),
			Price:       rec.price(),
		})
	}

	// An empty list on a successful response is still an available listing;
	// the reconciler treats it as everything having sold.
	return &BuyNowSnapshot{
		Items:       items,
		TotalCount:  len(items),
		IsAvailable: true,
	}, nil
}
