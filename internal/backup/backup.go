// Package backup keeps a restore point of the settings this tool changes:
// the active power scheme and the PlatformAoAcOverride value.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"powerplan/internal/logger"
	"powerplan/internal/standby"
)

const backupFilename = "backup_state.json"

// State is the snapshot written to disk.
type State struct {
	Timestamp    string         `json:"timestamp"`
	PowerPlan    string         `json:"powerPlan"` // active scheme GUID at capture time
	AoAcOverride standby.Status `json:"aoacOverride"`
}

// Plans is the slice of powercfg.Manager the store needs.
type Plans interface {
	ActiveGUID(ctx context.Context) (string, error)
	Activate(ctx context.Context, guid string) (string, error)
}

// Store reads and writes the snapshot file in one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir is <settings dir>/backups.
func DefaultDir(settingsDir string) string {
	return filepath.Join(settingsDir, "backups")
}

func (s *Store) path() string {
	return filepath.Join(s.dir, backupFilename)
}

// Has reports whether a non-empty snapshot exists.
func (s *Store) Has() bool {
	info, err := os.Stat(s.path())
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

// Save writes st, indented for human inspection.
func (s *Store) Save(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup state: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}
	st := &State{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}
	return st, nil
}

// Clear removes the snapshot. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove backup file: %w", err)
	}
	return nil
}

// Capture records the current settings unless a snapshot already exists, so
// the file always holds the state from before the first change. It reports
// whether a new snapshot was written.
func (s *Store) Capture(ctx context.Context, plans Plans, ov *standby.Override) (bool, error) {
	if s.Has() {
		return false, nil
	}

	guid, err := plans.ActiveGUID(ctx)
	if err != nil {
		return false, err
	}
	status, err := ov.Status()
	if err != nil {
		return false, err
	}

	st := &State{
		Timestamp:    time.Now().Format(time.RFC3339),
		PowerPlan:    guid,
		AoAcOverride: status,
	}
	if err := s.Save(st); err != nil {
		return false, err
	}
	logger.Info("restore point captured", "plan", guid, "aoac", status.String())
	return true, nil
}

// Restore re-applies the snapshot and removes it once everything succeeded.
// Each part is attempted even if another fails.
func (s *Store) Restore(ctx context.Context, plans Plans, ov *standby.Override) error {
	st, err := s.Load()
	if err != nil {
		return err
	}

	var errs []string
	if st.PowerPlan != "" {
		if _, err := plans.Activate(ctx, st.PowerPlan); err != nil {
			errs = append(errs, fmt.Sprintf("PowerPlan: %v", err))
		}
	}
	if err := ov.Restore(st.AoAcOverride); err != nil {
		errs = append(errs, fmt.Sprintf("Registry: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("restore completed with errors:\n%s", strings.Join(errs, "\n"))
	}
	logger.Info("restore point applied", "plan", st.PowerPlan)
	return s.Clear()
}
