package auction

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"plate-tracker/feature/auction/models"

	"go.uber.org/zap"
)

// Store persists one region's tracking session as a JSON file.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a store over the given tracking file path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the live tracking file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted session. A missing file is normal and yields a
// fresh session; a corrupt file is logged and also yields a fresh session,
// never an error.
func (s *Store) Load(region, displayName string, now time.Time) *models.Session {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to read tracking state, starting fresh",
				zap.String("region", region),
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return models.NewSession(region, displayName, now)
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		s.logger.Warn("Corrupt tracking state, starting fresh",
			zap.String("region", region),
			zap.String("path", s.path),
			zap.Error(err),
		)
		return models.NewSession(region, displayName, now)
	}
	if session.Plates == nil {
		session.Plates = map[string]*models.Lot{}
	}
	return &session
}

// Save writes the session wholesale, stamping last_updated. Partial
// in-memory mutation is never partially persisted.
func (s *Store) Save(session *models.Session, now time.Time) error {
	session.LastUpdated = now

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tracking state: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write tracking state: %w", err)
	}
	return nil
}

// MoveTo moves the live tracking file to an archive location.
func (s *Store) MoveTo(archivePath string) error {
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return fmt.Errorf("failed to create archive dir: %w", err)
	}
	if err := os.Rename(s.path, archivePath); err != nil {
		return fmt.Errorf("failed to archive tracking state: %w", err)
	}
	return nil
}
