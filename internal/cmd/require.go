package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/wpstack/internal/collect"
	"github.com/adamancini/wpstack/internal/interactive"
)

func newRequireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "require",
		Short: "Add plugin, theme and mu-plugin dependencies to the manifest",
		Long: `Interactively add composer dependencies to the manifest.

Dependencies can come from the wordpress.org directory (via wpackagist),
a git or svn repository, packagist.org, or a zip file or tarball. Each one is
added to composer.require, and repositories and archives also get a
composer.repositories entry.

Pick "No more, I'm done" to finish. Declining the final confirmation starts
that dependency over. The manifest is backed up before it is rewritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			warnIfNotTerminal()
			return runRequire(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runRequire(stdin io.Reader, stdout io.Writer) error {
	path, m, err := loadManifest()
	if err != nil {
		return err
	}

	if err := collect.Requirements(interactive.NewSessionWithIO(stdin, stdout), m); err != nil {
		return fmt.Errorf("dependency collection aborted: %w", err)
	}
	if m.Composer != nil {
		logger.Debug("collected dependencies",
			zap.Int("requirements", len(m.Composer.Require)),
			zap.Int("repositories", len(m.Composer.Repositories)))
	}

	if err := saveManifest(path, m, "before wpstack require"); err != nil {
		return err
	}
	if !quiet {
		_, _ = fmt.Fprintf(stdout, "\nUpdated %s\n", path)
	}
	return nil
}
