package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// buildInfo is the structured form of wpstack version.
type buildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the wpstack version, commit and build date.

Examples:
  wpstack version
  wpstack version -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd.OutOrStdout(), buildInfo{Version: version, Commit: commit, Date: date})
		},
	}
}

func runVersion(stdout io.Writer, info buildInfo) error {
	if handled, err := writeStructured(stdout, info); handled {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "wpstack version %s\n", info.Version)
	if !quiet {
		_, _ = fmt.Fprintf(stdout, "commit: %s\nbuilt:  %s\n", info.Commit, info.Date)
	}
	return nil
}
