// Package backup keeps snapshots of manifest files taken before wpstack
// rewrites them, and restores them on request.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// idFormat sorts lexically in creation order and keeps IDs unique for
// snapshots taken within the same second.
const idFormat = "2006-01-02-150405.000000000"

// Backup is a single manifest snapshot.
type Backup struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Note      string    `json:"note,omitempty"`
	Version   string    `json:"wpstack_version"`
	// Source is the absolute path of the manifest the snapshot was taken from.
	Source  string `json:"source"`
	Content string `json:"content"`
}

// BackupInfo provides summary information about a backup for listing.
type BackupInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Note      string    `json:"note,omitempty"`
	Source    string    `json:"source"`
	Size      int64     `json:"size"`
}

// Manager handles backup operations.
type Manager struct {
	backupDir string
	version   string
}

// NewManager creates a backup manager rooted in the user cache directory.
func NewManager(version string) (*Manager, error) {
	backupDir, err := getBackupDir()
	if err != nil {
		return nil, err
	}
	return &Manager{
		backupDir: backupDir,
		version:   version,
	}, nil
}

// NewManagerWithDir creates a backup manager with a custom directory (for testing).
func NewManagerWithDir(backupDir, version string) *Manager {
	return &Manager{
		backupDir: backupDir,
		version:   version,
	}
}

// getBackupDir returns the default backup directory path.
func getBackupDir() (string, error) {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "wpstack", "backups"), nil
}

// Create snapshots the manifest at sourcePath.
func (m *Manager) Create(sourcePath, note string) (*Backup, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", sourcePath, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := time.Now()
	backup := &Backup{
		ID:        now.Format(idFormat),
		CreatedAt: now,
		Note:      note,
		Version:   m.version,
		Source:    abs,
		Content:   string(content),
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}

	if err := os.WriteFile(m.path(backup.ID), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	return backup, nil
}

// List returns all backups sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backup, err := m.loadBackup(filepath.Join(m.backupDir, entry.Name()))
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			ID:        backup.ID,
			CreatedAt: backup.CreatedAt,
			Note:      backup.Note,
			Source:    backup.Source,
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Get retrieves a backup by ID. Use "latest" to get the most recent backup.
func (m *Manager) Get(id string) (*Backup, error) {
	if id == "latest" {
		backups, err := m.List()
		if err != nil {
			return nil, err
		}
		if len(backups) == 0 {
			return nil, fmt.Errorf("no backups found")
		}
		id = backups[0].ID
	}

	return m.loadBackup(m.path(id))
}

// Restore writes the snapshot back. An empty target restores to the path the
// snapshot was taken from.
func (m *Manager) Restore(id, target string) (*Backup, error) {
	backup, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if target == "" {
		target = backup.Source
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(backup.Content), 0644); err != nil {
		return nil, fmt.Errorf("failed to restore manifest: %w", err)
	}
	return backup, nil
}

// Delete removes a backup by ID.
func (m *Manager) Delete(id string) error {
	path := m.path(id)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", id)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	return nil
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.backupDir, id+".json")
}

// loadBackup reads and parses a backup file.
func (m *Manager) loadBackup(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup not found: %s", filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}

	return &backup, nil
}

// BackupDir returns the backup directory path.
func (m *Manager) BackupDir() string {
	return m.backupDir
}
