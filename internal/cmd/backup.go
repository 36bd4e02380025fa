package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adamancini/wpstack/internal/backup"
	"github.com/adamancini/wpstack/internal/interactive"
	"github.com/adamancini/wpstack/internal/manifest"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "List and restore manifest backups",
		Long: `Backup manages the manifest snapshots wpstack takes before rewriting a
manifest (wpstack proxies, wpstack require, wpstack init --force).

Backups are stored in $XDG_CACHE_HOME/wpstack/backups/ (default
~/.cache/wpstack/backups/).`,
	}

	cmd.AddCommand(newBackupListCmd())
	cmd.AddCommand(newBackupRestoreCmd())
	cmd.AddCommand(newBackupDeleteCmd())
	cmd.AddCommand(newBackupPruneCmd())

	return cmd
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all backups",
		Long:  `List displays all available backups with their creation time, source manifest, note and size.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupList(cmd.OutOrStdout())
		},
	}
}

func newBackupRestoreCmd() *cobra.Command {
	var yes bool
	var target string

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a manifest from a backup",
		Long: `Restore writes a snapshot back to the manifest it was taken from, or to
--to when given. Use 'latest' as the ID to restore the most recent backup.

The manifest being replaced is itself backed up first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupRestore(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], target, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	cmd.Flags().StringVar(&target, "to", "", "Restore to this path instead of the original location")

	return cmd
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup",
		Long:  `Delete removes a backup by its ID.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupDelete(cmd.OutOrStdout(), args[0])
		},
	}
}

func newBackupPruneCmd() *cobra.Command {
	var keep int
	var current bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove old backups",
		Long: fmt.Sprintf(`Prune deletes old backups, keeping only the most recent N.

By default keeps the %d most recent backups. With --current only backups
of the discovered manifest are considered.`, backup.DefaultKeepCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupPrune(cmd.OutOrStdout(), keep, current)
		},
	}

	cmd.Flags().IntVar(&keep, "keep", backup.DefaultKeepCount, "Number of backups to keep")
	cmd.Flags().BoolVar(&current, "current", false, "Only prune backups of the current manifest")

	return cmd
}

func runBackupList(stdout io.Writer) error {
	manager, err := backup.NewManager(appVersion)
	if err != nil {
		return err
	}

	backups, err := manager.List()
	if err != nil {
		return err
	}

	if handled, err := writeStructured(stdout, backups); handled {
		return err
	}

	if len(backups) == 0 {
		_, _ = fmt.Fprintln(stdout, "No backups found.")
		_, _ = fmt.Fprintf(stdout, "Backup directory: %s\n", manager.BackupDir())
		return nil
	}

	_, _ = fmt.Fprintf(stdout, "Backups stored in %s:\n\n", manager.BackupDir())

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCreated\tManifest\tNote\tSize")
	for _, b := range backups {
		note := b.Note
		if note == "" {
			note = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			b.ID,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			b.Source,
			note,
			formatSize(b.Size),
		)
	}
	return w.Flush()
}

func runBackupRestore(stdin io.Reader, stdout io.Writer, id, target string, skipConfirm bool) error {
	manager, err := backup.NewManager(appVersion)
	if err != nil {
		return err
	}

	bak, err := manager.Get(id)
	if err != nil {
		return err
	}
	if target == "" {
		target = bak.Source
	}

	_, _ = fmt.Fprintf(stdout, "Restoring backup %s to %s\n", bak.ID, target)
	_, _ = fmt.Fprintf(stdout, "Created: %s\n", bak.CreatedAt.Format("2006-01-02 15:04:05"))
	if bak.Note != "" {
		_, _ = fmt.Fprintf(stdout, "Note: %s\n", bak.Note)
	}

	if !skipConfirm {
		answers, err := interactive.NewSessionWithIO(stdin, stdout).Ask([]interactive.Question{{
			Type:    interactive.Confirm,
			Name:    "proceed",
			Message: "Overwrite the manifest?",
		}})
		if err != nil {
			return err
		}
		if !answers.Bool("proceed") {
			_, _ = fmt.Fprintln(stdout, "Restore cancelled.")
			return nil
		}
	}

	if _, err := manifest.Find(target, ""); err == nil {
		if _, err := manager.Create(target, "before wpstack backup restore "+bak.ID); err != nil {
			return fmt.Errorf("failed to back up %s: %w", target, err)
		}
	}

	if _, err := manager.Restore(bak.ID, target); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stdout, "Restored successfully")
	return nil
}

func runBackupDelete(stdout io.Writer, id string) error {
	manager, err := backup.NewManager(appVersion)
	if err != nil {
		return err
	}

	if err := manager.Delete(id); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Backup deleted: %s\n", id)
	return nil
}

func runBackupPrune(stdout io.Writer, keep int, current bool) error {
	manager, err := backup.NewManager(appVersion)
	if err != nil {
		return err
	}

	source := ""
	if current {
		path, _, err := loadManifest()
		if err != nil {
			return err
		}
		source = path
	}

	result, err := manager.Prune(keep, source)
	if err != nil {
		return err
	}

	if handled, err := writeStructured(stdout, result); handled {
		return err
	}

	if len(result.Deleted) == 0 {
		_, _ = fmt.Fprintf(stdout, "No backups to prune. Keeping %d backups.\n", result.Kept)
		return nil
	}

	_, _ = fmt.Fprintf(stdout, "Pruned %d backup(s), keeping %d:\n", len(result.Deleted), result.Kept)
	for _, b := range result.Deleted {
		_, _ = fmt.Fprintf(stdout, "  - %s (%s)\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// formatSize formats a byte size as a human-readable string.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
