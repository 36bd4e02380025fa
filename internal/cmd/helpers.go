package cmd

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/adamancini/wpstack/internal/backup"
	"github.com/adamancini/wpstack/internal/manifest"
	"github.com/adamancini/wpstack/internal/output"
)

// loadManifest finds and loads the manifest named by --manifest,
// $WPSTACK_MANIFEST or the current directory.
func loadManifest() (string, *manifest.Manifest, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	path, err := manifest.Find(manifestPath, cwd)
	if err != nil {
		return "", nil, err
	}

	m, err := manifest.Load(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	logger.Debug("loaded manifest", zap.String("path", path))
	return path, m, nil
}

// saveManifest snapshots the current file and patches the collected subtrees
// of m into it.
func saveManifest(path string, m *manifest.Manifest, note string) error {
	if err := manifest.Validate(m); err != nil {
		return err
	}

	manager, err := backup.NewManager(appVersion)
	if err != nil {
		return err
	}
	bak, err := manager.Create(path, note)
	if err != nil {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}
	logger.Debug("backed up manifest", zap.String("id", bak.ID), zap.String("path", path))

	if err := manifest.Save(path, m); err != nil {
		return err
	}
	logger.Info("saved manifest", zap.String("path", path))
	return nil
}

// writeStructured writes v in the --output format. It reports false for
// text output so the caller can print its own rendering.
func writeStructured(w io.Writer, v any) (bool, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return true, err
	}
	if format == output.FormatText {
		return false, nil
	}
	return true, output.NewWriter(w, format).Write(v)
}
