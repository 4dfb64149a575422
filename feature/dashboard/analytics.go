package dashboard

import (
	"sort"
	"strconv"
	"strings"
)

// PricedPlate is the minimal view analytics needs of a plate.
type PricedPlate struct {
	Number string
	Price  int
}

// DigitStats summarizes prices for one plate-number digit count.
type DigitStats struct {
	Count int `json:"count"`
	Avg   int `json:"avg"`
	Min   int `json:"min"`
	Max   int `json:"max"`
}

// PriceStats summarizes a set of plate prices, grouped by the number of
// digits in the plate number. Short numbers trade far above long ones, so
// the per-digit breakdown is the interesting view.
type PriceStats struct {
	TotalPlates int                   `json:"total_plates"`
	TotalValue  int                   `json:"total_value"`
	AvgPrice    int                   `json:"avg_price"`
	MinPrice    int                   `json:"min_price"`
	MaxPrice    int                   `json:"max_price"`
	ByDigits    map[string]DigitStats `json:"by_digits,omitempty"`
}

// ComputePriceStats builds price statistics over a set of plates.
// Plates without a positive price are counted in TotalPlates but excluded
// from the price aggregates.
func ComputePriceStats(plates []PricedPlate) PriceStats {
	stats := PriceStats{
		TotalPlates: len(plates),
		ByDigits:    map[string]DigitStats{},
	}

	byDigits := map[int][]int{}
	var all []int
	for _, p := range plates {
		if p.Price <= 0 {
			continue
		}
		digits := len(strings.TrimSpace(p.Number))
		byDigits[digits] = append(byDigits[digits], p.Price)
		all = append(all, p.Price)
	}
	if len(all) == 0 {
		return stats
	}

	stats.TotalValue, stats.MinPrice, stats.MaxPrice = summarize(all)
	stats.AvgPrice = stats.TotalValue / len(all)

	digits := make([]int, 0, len(byDigits))
	for d := range byDigits {
		digits = append(digits, d)
	}
	sort.Ints(digits)
	for _, d := range digits {
		prices := byDigits[d]
		total, min, max := summarize(prices)
		stats.ByDigits[strconv.Itoa(d)] = DigitStats{
			Count: len(prices),
			Avg:   total / len(prices),
			Min:   min,
			Max:   max,
		}
	}
	return stats
}

func summarize(prices []int) (total, min, max int) {
	min, max = prices[0], prices[0]
	for _, p := range prices {
		total += p
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return total, min, max
}
