// Package auction implements the auction tracking reconciliation engine.
//
// Each region has one tracking Session persisted as a JSON file. On every
// poll the Tracker merges the fresh snapshot into the session:
//
//  1. Unseen lots are inserted as active with their first price point.
//  2. Completed lots are skipped entirely; they are frozen.
//  3. Active lots get their price, bid count and last-seen refreshed, with a
//     price-history entry appended when the price changed.
//  4. Active lots absent from the snapshot transition to completed. Absence
//     is the only completion signal the platform provides.
//
// When every tracked lot has completed, the caller archives the session: a
// price-ranked CSV export plus the archived tracking JSON, after which the
// live tracking file is replaced by a fresh empty session. The live file
// therefore always represents the current auction, never a terminal one.
//
// State files that fail to parse are treated as absent with a logged
// warning; write failures propagate.
package auction
