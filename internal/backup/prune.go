package backup

import (
	"fmt"
	"path/filepath"
)

// DefaultKeepCount is the default number of backups to retain.
const DefaultKeepCount = 20

// PruneResult contains information about what was pruned.
type PruneResult struct {
	Deleted []BackupInfo
	Kept    int
}

// Prune removes old backups, keeping the most recent keep snapshots. When
// source is set only snapshots of that manifest are considered.
func (m *Manager) Prune(keep int, source string) (*PruneResult, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep count must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return nil, err
	}

	if source != "" {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", source, err)
		}
		matching := backups[:0]
		for _, b := range backups {
			if b.Source == abs {
				matching = append(matching, b)
			}
		}
		backups = matching
	}

	result := &PruneResult{Kept: len(backups)}
	if len(backups) <= keep {
		return result, nil
	}

	// newest first, so everything past keep goes
	result.Kept = keep
	for _, b := range backups[keep:] {
		if err := m.Delete(b.ID); err != nil {
			return nil, fmt.Errorf("failed to delete backup %s: %w", b.ID, err)
		}
		result.Deleted = append(result.Deleted, b)
	}

	return result, nil
}
