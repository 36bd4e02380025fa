package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adamancini/wpstack/internal/dump"
)

func newDumpCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "dump <target>...",
		Short: "Write generated files from the manifest",
		Long: `Dump renders files from the manifest.

Targets:
  vmanifest     vmanifest.json
  composer      composer.json and app/<composer-path>/composer.json
  env           .env and .env.example (salts are kept across runs)
  domains       config/vvv-hosts, plus wp-cli and nginx-config
  wp-cli        wp-cli.yml
  package       package.json for the grunt toolchain
  nginx-config  vvv-nginx.conf and config/proxy.conf
  all           every target above

Examples:
  wpstack dump all
  wpstack dump composer env
  wpstack dump nginx-config --dir /srv/www/acme`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: append(append([]string{}, dump.Targets...), dump.TargetAll),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.OutOrStdout(), dir, args)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default: the manifest's directory)")

	return cmd
}

func runDump(stdout io.Writer, dir string, targets []string) error {
	path, m, err := loadManifest()
	if err != nil {
		return err
	}
	if dir == "" {
		dir = filepath.Dir(path)
	}

	written, err := dump.New(m, dir, dump.WithLogger(logger)).Run(targets...)
	if err != nil {
		return err
	}

	if handled, err := writeStructured(stdout, written); handled {
		return err
	}
	if quiet {
		return nil
	}
	if len(written) == 0 {
		_, _ = fmt.Fprintln(stdout, "Nothing written.")
		return nil
	}
	for _, rel := range written {
		_, _ = fmt.Fprintf(stdout, "wrote %s\n", filepath.Join(dir, rel))
	}
	return nil
}
