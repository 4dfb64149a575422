// Package dashboard aggregates live and archived tracking data for
// reporting.
//
// The Aggregator reads the per-region tracking JSONs, Buy-Now ledgers and
// the archive directories, and produces one Data document with summary
// totals and per-digit-count price analytics. The export command writes the
// document to disk for static dashboards; the serve command exposes it over
// HTTP, rebuilt on each request.
//
// Files that fail to parse are skipped with a logged warning; aggregation is
// a read-only reporting pass and never mutates tracker state.
package dashboard
