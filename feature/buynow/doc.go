// Package buynow implements the Buy-Now inventory reconciler.
//
// Unlike an auction, the Buy-Now inventory has no fixed end: the ledger is a
// continuously-open flat table of items keyed by plate code + number (the
// platform gives no stable numeric ID at this layer). Presence in a snapshot
// means available; absence means sold. A sold item that reappears is revived
// to available with its sold timestamp cleared, since a re-listing overrides
// a stale sold mark.
//
// The ledger is archived, by copy, when everything sold or the listing went
// empty. The live ledger file is kept afterward on purpose: reappearing
// items must be recognized as already seen rather than spuriously new. This
// is a deliberate asymmetry versus the auction tracker, which fully resets
// after archiving.
package buynow
