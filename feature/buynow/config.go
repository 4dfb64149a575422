package buynow

import (
	"fmt"
	"path/filepath"
)

// Config holds configuration for Buy-Now ledgers and their archives.
type Config struct {
	// Dir is where live ledger files are kept.
	Dir string `mapstructure:"dir" default:"data/buynow"`
	// ArchiveDir is where ledger archive copies go.
	ArchiveDir string `mapstructure:"archive_dir" default:"data/buynow/archive"`
}

// LedgerFile returns the live ledger file path for a region.
func (c Config) LedgerFile(region string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_buynow.csv", region))
}
