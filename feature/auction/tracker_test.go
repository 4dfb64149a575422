package auction

import (
	"os"
	"testing"
	"time"

	"plate-tracker/feature/auction/models"
	"plate-tracker/feature/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testRegion = market.Region{Key: "dubai", DisplayName: "Dubai", AuctionTypeID: 1}

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		DataDir:                    dir,
		ArchiveDir:                 dir + "/archive",
		FinalHoursThresholdSeconds: 7200,
	}
}

func newTestTracker(t *testing.T, cfg Config, at time.Time) *Tracker {
	tracker := NewTracker(cfg, testRegion, zap.NewNop())
	tracker.now = func() time.Time { return at }
	tracker.session = tracker.store.Load(testRegion.Key, testRegion.DisplayName, at)
	return tracker
}

func lot(id string, price int) market.Lot {
	return market.Lot{
		LotID:        id,
		PlateNumber:  "123" + id,
		PlateCode:    "A",
		CurrentPrice: price,
		BidCount:     1,
	}
}

func TestUpdateInsertsNewLots(t *testing.T) {
	tracker := newTestTracker(t, testConfig(t), time.Now().UTC())

	result := tracker.Update([]market.Lot{lot("1", 100), lot("2", 5000)})

	assert.Equal(t, 2, result.NewLots)
	assert.Equal(t, 0, result.UpdatedLots)
	assert.Equal(t, 0, result.CompletedLots)
	assert.Equal(t, 2, result.ActiveCount)
	assert.Equal(t, 2, result.TotalCount)

	tracked := tracker.Session().Plates["1"]
	require.NotNil(t, tracked)
	assert.Equal(t, models.LotActive, tracked.Status)
	assert.Len(t, tracked.PriceHistory, 1)
	assert.Equal(t, 100, tracked.PriceHistory[0].Price)
}

func TestUpdateIsIdempotentForUnchangedSnapshot(t *testing.T) {
	tracker := newTestTracker(t, testConfig(t), time.Now().UTC())
	snapshot := []market.Lot{lot("1", 100), lot("2", 5000)}

	tracker.Update(snapshot)
	result := tracker.Update(snapshot)

	assert.Equal(t, 0, result.NewLots)
	assert.Equal(t, 0, result.UpdatedLots)
	assert.Equal(t, 0, result.CompletedLots)
	assert.Len(t, tracker.Session().Plates["1"].PriceHistory, 1)
}

func TestUpdateAppendsHistoryOnPriceChange(t *testing.T) {
	tracker := newTestTracker(t, testConfig(t), time.Now().UTC())

	tracker.Update([]market.Lot{lot("1", 100)})
	result := tracker.Update([]market.Lot{lot("1", 150)})

	assert.Equal(t, 1, result.UpdatedLots)
	tracked := tracker.Session().Plates["1"]
	assert.Equal(t, 150, tracked.CurrentPrice)
	require.Len(t, tracked.PriceHistory, 2)
	assert.Equal(t, 100, tracked.PriceHistory[0].Price)
	assert.Equal(t, 150, tracked.PriceHistory[1].Price)
	assert.Equal(t, 1, tracked.PriceChanges())
}

func TestDisappearanceCompletesLot(t *testing.T) {
	tracker := newTestTracker(t, testConfig(t), time.Now().UTC())

	tracker.Update([]market.Lot{lot("1", 100), lot("2", 5000)})
	result := tracker.Update([]market.Lot{lot("1", 120)})

	assert.Equal(t, 1, result.CompletedLots)
	assert.Equal(t, 1, result.ActiveCount)

	completed := tracker.Session().Plates["2"]
	assert.Equal(t, models.LotCompleted, completed.Status)
	require.NotNil(t, completed.FinalPrice)
	assert.Equal(t, 5000, *completed.FinalPrice)
	assert.NotNil(t, completed.CompletedAt)
}

func TestCompletedLotIsFrozen(t *testing.T) {
	tracker := newTestTracker(t, testConfig(t), time.Now().UTC())

	tracker.Update([]market.Lot{lot("1", 100), lot("2", 5000)})
	tracker.Update([]market.Lot{lot("1", 100)})

	// Lot 2 reappears at a different price after completing.
	result := tracker.Update([]market.Lot{lot("1", 100), lot("2", 9999)})

	assert.Equal(t, 0, result.NewLots)
	assert.Equal(t, 0, result.UpdatedLots)
	frozen := tracker.Session().Plates["2"]
	assert.Equal(t, models.LotCompleted, frozen.Status)
	assert.Equal(t, 5000, *frozen.FinalPrice)
	assert.Equal(t, 5000, frozen.CurrentPrice)
	assert.Len(t, frozen.PriceHistory, 1)
}

func TestAuctionLifecycle(t *testing.T) {
	tracker := newTestTracker(t, testConfig(t), time.Now().UTC())

	tracker.Update([]market.Lot{lot("1", 100)})
	assert.False(t, tracker.IsComplete())

	tracker.Update([]market.Lot{lot("1", 150)})
	assert.False(t, tracker.IsComplete())

	result := tracker.Update(nil)
	assert.Equal(t, 1, result.CompletedLots)
	assert.True(t, tracker.IsComplete())

	final := tracker.Session().Plates["1"]
	assert.Equal(t, 150, *final.FinalPrice)
	require.Len(t, final.PriceHistory, 2)
}

func TestEmptySessionIsNeverComplete(t *testing.T) {
	tracker := newTestTracker(t, testConfig(t), time.Now().UTC())

	assert.False(t, tracker.IsComplete())
	tracker.Update(nil)
	assert.False(t, tracker.IsComplete())
}

func TestFinalHoursFlag(t *testing.T) {
	tests := []struct {
		name      string
		remaining *int64
		want      bool
	}{
		{"below threshold", int64Ptr(3600), true},
		{"at threshold", int64Ptr(7200), false},
		{"above threshold", int64Ptr(86400), false},
		{"no time data", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newTestTracker(t, testConfig(t), time.Now().UTC())
			l := lot("1", 100)
			l.TimeRemaining = tt.remaining

			result := tracker.Update([]market.Lot{l})

			assert.Equal(t, tt.want, result.IsFinalHours)
			if tt.remaining == nil {
				assert.Nil(t, result.MinTimeRemaining)
			} else {
				require.NotNil(t, result.MinTimeRemaining)
				assert.Equal(t, *tt.remaining, *result.MinTimeRemaining)
			}
		})
	}
}

func TestMinTimeRemainingAcrossLots(t *testing.T) {
	tracker := newTestTracker(t, testConfig(t), time.Now().UTC())

	a, b := lot("1", 100), lot("2", 200)
	a.TimeRemaining = int64Ptr(90000)
	b.TimeRemaining = int64Ptr(1800)

	result := tracker.Update([]market.Lot{a, b})

	require.NotNil(t, result.MinTimeRemaining)
	assert.Equal(t, int64(1800), *result.MinTimeRemaining)
	assert.True(t, result.IsFinalHours)
}

func TestSaveAndReload(t *testing.T) {
	cfg := testConfig(t)
	now := time.Now().UTC()

	tracker := newTestTracker(t, cfg, now)
	tracker.Update([]market.Lot{lot("1", 100), lot("2", 5000)})
	tracker.Update([]market.Lot{lot("1", 120)})
	require.NoError(t, tracker.Save())

	reloaded := newTestTracker(t, cfg, now)
	session := reloaded.Session()
	assert.Equal(t, tracker.Session().AuctionID, session.AuctionID)
	assert.Len(t, session.Plates, 2)
	assert.Equal(t, models.LotCompleted, session.Plates["2"].Status)
	assert.Equal(t, 1, session.Stats.ActivePlates)
	assert.Equal(t, 1, session.Stats.CompletedPlates)
}

func TestCorruptStateStartsFresh(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.TrackingFile(testRegion.Key), []byte("{not json"), 0o644))

	tracker := newTestTracker(t, cfg, time.Now().UTC())

	session := tracker.Session()
	assert.Empty(t, session.Plates)
	assert.Equal(t, models.SessionActive, session.Status)
}

func TestReset(t *testing.T) {
	cfg := testConfig(t)
	tracker := newTestTracker(t, cfg, time.Now().UTC())
	tracker.Update([]market.Lot{lot("1", 100)})
	require.NoError(t, tracker.Save())

	require.NoError(t, tracker.Reset())

	assert.Empty(t, tracker.Session().Plates)
	reloaded := newTestTracker(t, cfg, time.Now().UTC())
	assert.Empty(t, reloaded.Session().Plates)
}

func int64Ptr(v int64) *int64 {
	return &v
}
