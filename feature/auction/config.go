package auction

import (
	"fmt"
	"path/filepath"
)

// Config holds configuration for auction tracking state and archives.
type Config struct {
	// DataDir is where live tracking files are kept.
	DataDir string `mapstructure:"data_dir" default:"data"`
	// ArchiveDir is where finalized exports and archived sessions go.
	ArchiveDir string `mapstructure:"archive_dir" default:"data/archive"`
	// FinalHoursThresholdSeconds is the remaining-time threshold under which
	// the tracker signals final hours, so the caller can poll faster.
	FinalHoursThresholdSeconds int64 `mapstructure:"final_hours_threshold_seconds" default:"7200"`
}

// TrackingFile returns the live tracking file path for a region.
func (c Config) TrackingFile(region string) string {
	return filepath.Join(c.DataDir, fmt.Sprintf("tracking_%s.json", region))
}
