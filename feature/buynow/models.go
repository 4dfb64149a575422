package buynow

import (
	"fmt"
	"time"
)

// ItemStatus is the availability state of a ledger item.
type ItemStatus string

const (
	// ItemAvailable means the item is currently listed for sale.
	ItemAvailable ItemStatus = "available"
	// ItemSold means the item disappeared from the listing.
	ItemSold ItemStatus = "sold"
)

// Item is one fixed-price plate in a region's ledger.
// SoldAt is set exactly when Status is sold; revival clears it.
type Item struct {
	Region      string
	PlateNumber string
	PlateCode   string
	Price       int
	FirstSeen   time.Time
	LastSeen    time.Time
	Status      ItemStatus
	SoldAt      *time.Time
}

// Key returns the natural ledger key for a plate.
func Key(plateCode, plateNumber string) string {
	return fmt.Sprintf("%s_%s", plateCode, plateNumber)
}

// Ledger maps natural keys to items.
type Ledger map[string]*Item

// CountAvailable returns the number of available items.
func (l Ledger) CountAvailable() int {
	n := 0
	for _, item := range l {
		if item.Status == ItemAvailable {
			n++
		}
	}
	return n
}
