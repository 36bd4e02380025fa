package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "vmanifest.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestManager_Create(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir(), "v1.0.0")
	source := writeManifest(t, t.TempDir(), "server:\n  local: acme.test\n")

	bak, err := manager.Create(source, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if bak.ID == "" {
		t.Error("Create() backup ID is empty")
	}
	if bak.Version != "v1.0.0" {
		t.Errorf("Create() Version = %v, want v1.0.0", bak.Version)
	}
	if bak.Source != source {
		t.Errorf("Create() Source = %v, want %v", bak.Source, source)
	}
	if !strings.Contains(bak.Content, "acme.test") {
		t.Errorf("Create() Content = %q", bak.Content)
	}

	if _, err := os.Stat(filepath.Join(manager.BackupDir(), bak.ID+".json")); err != nil {
		t.Errorf("backup file not written: %v", err)
	}
}

func TestManager_CreateMissingSource(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir(), "v1.0.0")

	if _, err := manager.Create(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("Create() expected error for missing manifest")
	}
}

func TestManager_ListAndGetLatest(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir(), "v1.0.0")
	source := writeManifest(t, t.TempDir(), "a")

	first, err := manager.Create(source, "first")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_ = os.WriteFile(source, []byte("b"), 0644)
	second, err := manager.Create(source, "second")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("consecutive backups share an ID")
	}

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("List() returned %d backups, want 2", len(backups))
	}
	if backups[0].ID != second.ID {
		t.Errorf("List() not sorted newest first: %v", backups)
	}

	latest, err := manager.Get("latest")
	if err != nil {
		t.Fatalf("Get(latest) error = %v", err)
	}
	if latest.Note != "second" || latest.Content != "b" {
		t.Errorf("Get(latest) = %+v", latest)
	}

	got, err := manager.Get(first.ID)
	if err != nil || got.Content != "a" {
		t.Errorf("Get(%s) = %+v, %v", first.ID, got, err)
	}
}

func TestManager_ListEmpty(t *testing.T) {
	manager := NewManagerWithDir(filepath.Join(t.TempDir(), "none"), "v1.0.0")

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %v, want empty", backups)
	}
}

func TestManager_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	manager := NewManagerWithDir(dir, "v1.0.0")
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %v, want empty", backups)
	}
}

func TestManager_GetErrors(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir(), "v1.0.0")

	if _, err := manager.Get("nonexistent"); err == nil {
		t.Error("Get() expected error for missing backup")
	}
	if _, err := manager.Get("latest"); err == nil || !strings.Contains(err.Error(), "no backups") {
		t.Errorf("Get(latest) error = %v, want 'no backups'", err)
	}
}

func TestManager_Restore(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir(), "v1.0.0")
	source := writeManifest(t, t.TempDir(), "original")

	bak, err := manager.Create(source, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_ = os.WriteFile(source, []byte("changed"), 0644)

	if _, err := manager.Restore("latest", ""); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	content, _ := os.ReadFile(source)
	if string(content) != "original" {
		t.Errorf("restored content = %q, want original", content)
	}

	other := filepath.Join(t.TempDir(), "sub", "copy.yaml")
	if _, err := manager.Restore(bak.ID, other); err != nil {
		t.Fatalf("Restore() to target error = %v", err)
	}
	content, _ = os.ReadFile(other)
	if string(content) != "original" {
		t.Errorf("restored copy = %q, want original", content)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir(), "v1.0.0")
	source := writeManifest(t, t.TempDir(), "x")

	bak, err := manager.Create(source, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := manager.Delete(bak.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := manager.Get(bak.ID); err == nil {
		t.Error("backup still present after Delete()")
	}
	if err := manager.Delete(bak.ID); err == nil {
		t.Error("Delete() expected error for missing backup")
	}
}
