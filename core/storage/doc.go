// Package storage provides the optional off-site archive mirror.
//
// Finalized auction exports, archived tracking snapshots and Buy-Now ledger
// copies are written to the local archive directories first; when the mirror
// is enabled the same files are uploaded to an S3-compatible bucket under
// archives/<region>/. The mirror is strictly best-effort: local archival is
// the system of record and upload failures are logged, never propagated.
package storage
