package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/wpstack/internal/collect"
	"github.com/adamancini/wpstack/internal/interactive"
)

func newProxiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proxies",
		Short: "Add static file proxy captures to the manifest",
		Long: `Interactively add static file proxy captures to server.proxies.

Each capture has a name, a file type selection (the default static file list,
a subset or superset of it, a custom list, or a raw regular expression) and
one or more upstream locations. Missing local files matching the capture are
fetched from the locations in order.

The manifest is backed up before it is rewritten. Nothing is saved if the
session ends early.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			warnIfNotTerminal()
			return runProxies(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runProxies(stdin io.Reader, stdout io.Writer) error {
	path, m, err := loadManifest()
	if err != nil {
		return err
	}

	before := len(m.Server.Proxies)
	if err := collect.Proxies(interactive.NewSessionWithIO(stdin, stdout), m); err != nil {
		return fmt.Errorf("proxy collection aborted: %w", err)
	}
	logger.Debug("collected proxy captures", zap.Int("before", before), zap.Int("after", len(m.Server.Proxies)))

	if err := saveManifest(path, m, "before wpstack proxies"); err != nil {
		return err
	}
	if !quiet {
		_, _ = fmt.Fprintf(stdout, "\nUpdated %s\n", path)
	}
	return nil
}

func warnIfNotTerminal() {
	if !interactive.IsTerminal() {
		logger.Warn("stdin is not a terminal, reading answers line by line")
	}
}
