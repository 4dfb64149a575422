// Package market implements the remote auction platform client.
//
// It knows the region table (region key to auction/buy-now endpoint IDs),
// performs rate-limited HTTP polling against the platform API, and parses the
// raw responses into typed snapshot records consumed by the auction and
// buy-now reconcilers.
//
// # Snapshots
//
// A snapshot is one point-in-time list of currently-listed lots or items.
// AuctionSnapshot.IsActive carries the API-level "an auction exists" signal,
// which is distinct from a snapshot with zero lots: the platform answers with
// an invalid-type error when a region has no running auction at all.
//
// Malformed records (missing lot ID) are skipped individually; they never
// abort parsing of the rest of the snapshot.
package market
