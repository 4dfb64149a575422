package market

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuctionResponse(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	end := now.Add(90 * time.Minute).Unix()

	body := `{
		"Data": [
			{"Id": 1001, "PlateNumber": 77, "PlateCode": "A", "CurrentPriceStr": "1,250,000", "CurrentPrice": 0, "Bids": 42, "EndDateTimestamp": ` + itoa(end) + `},
			{"Id": "1002", "PlateNumber": "12345", "PlateCode": "Q", "CurrentPriceStr": "", "CurrentPrice": 5000, "Bids": 3},
			{"Id": "", "PlateNumber": "9", "PlateCode": "B", "CurrentPrice": 100}
		],
		"TotalCount": 3
	}`

	snap, err := parseAuctionResponse([]byte(body), now)
	require.NoError(t, err)

	assert.True(t, snap.IsActive)
	assert.Equal(t, 3, snap.TotalCount)
	require.Len(t, snap.Lots, 2)

	// Mixed string/number fields normalize; the formatted price wins.
	first := snap.Lots[0]
	assert.Equal(t, "1001", first.LotID)
	assert.Equal(t, "77", first.PlateNumber)
	assert.Equal(t, 1250000, first.CurrentPrice)
	assert.Equal(t, 42, first.BidCount)
	require.NotNil(t, first.TimeRemaining)
	assert.Equal(t, int64(5400), *first.TimeRemaining)

	// No end timestamp means no time data at all.
	second := snap.Lots[1]
	assert.Equal(t, 5000, second.CurrentPrice)
	assert.Nil(t, second.TimeRemaining)
	assert.Nil(t, second.EndDate)
}

func TestParseAuctionResponseClampsElapsedTime(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour).Unix()

	body := `{"Data": [{"Id": "1", "PlateNumber": "5", "PlateCode": "A", "CurrentPrice": 100, "EndDateTimestamp": ` + itoa(past) + `}]}`

	snap, err := parseAuctionResponse([]byte(body), now)
	require.NoError(t, err)
	require.Len(t, snap.Lots, 1)
	require.NotNil(t, snap.Lots[0].TimeRemaining)
	assert.Equal(t, int64(0), *snap.Lots[0].TimeRemaining)
}

func TestParseAuctionResponseEmptyList(t *testing.T) {
	snap, err := parseAuctionResponse([]byte(`{"Data": [], "TotalCount": 0}`), time.Now().UTC())
	require.NoError(t, err)

	assert.True(t, snap.IsActive)
	assert.Empty(t, snap.Lots)
	assert.Equal(t, 0, snap.TotalCount)
}

func TestParseBuyNowResponse(t *testing.T) {
	body := `{"Data": [
		{"Id": 55, "PlateNumber": "777", "PlateCode": "AA", "CurrentPriceStr": "40,000"},
		{"Id": "56", "PlateNumber": 8, "PlateCode": "B", "CurrentPrice": 9000}
	]}`

	snap, err := parseBuyNowResponse([]byte(body))
	require.NoError(t, err)

	assert.True(t, snap.IsAvailable)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "777", snap.Items[0].PlateNumber)
	assert.Equal(t, 40000, snap.Items[0].Price)
	assert.Equal(t, "8", snap.Items[1].PlateNumber)
	assert.Equal(t, 9000, snap.Items[1].Price)
}

func TestParseBuyNowResponseEmptyListIsStillAvailable(t *testing.T) {
	snap, err := parseBuyNowResponse([]byte(`{"Data": []}`))
	require.NoError(t, err)

	assert.True(t, snap.IsAvailable)
	assert.Empty(t, snap.Items)
}

func TestLotRecordPriceFallback(t *testing.T) {
	tests := []struct {
		name string
		rec  lotRecord
		want int
	}{
		{"formatted string wins", lotRecord{CurrentPriceStr: "1,500", CurrentPrice: 9}, 1500},
		{"spaces stripped", lotRecord{CurrentPriceStr: "12 000"}, 12000},
		{"empty string falls back", lotRecord{CurrentPriceStr: "", CurrentPrice: 700}, 700},
		{"garbage falls back", lotRecord{CurrentPriceStr: "TBD", CurrentPrice: 700}, 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.price())
		})
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
