package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adamancini/wpstack/internal/manifest"
	"github.com/adamancini/wpstack/internal/proxy"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [proxies|composer]",
		Short: "Show normalized parts of the manifest",
		Long: `Show prints the proxy captures as nginx will see them (after shorthand
expansion, fallback URLs and type list resolution), or the composer section.

Use -o json or -o yaml for machine readable output.`,
		ValidArgs: []string{"proxies", "composer"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			what := "proxies"
			if len(args) == 1 {
				what = args[0]
			}
			return runShow(cmd.OutOrStdout(), what)
		},
	}
}

func runShow(stdout io.Writer, what string) error {
	_, m, err := loadManifest()
	if err != nil {
		return err
	}

	switch what {
	case "proxies":
		return showProxies(stdout, proxy.NormalizeAll(m.Server.Proxies, m.Server.Remote))
	case "composer":
		return showComposer(stdout, m.Composer)
	}
	return fmt.Errorf("unknown section %q", what)
}

func showProxies(stdout io.Writer, set proxy.Set) error {
	if handled, err := writeStructured(stdout, set); handled {
		return err
	}

	if len(set) == 0 {
		_, _ = fmt.Fprintln(stdout, "No proxy captures enabled.")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "Capture\tMatch\tURL\tRewrite")
	for _, name := range set.Names() {
		c := set[name]
		for i, loc := range c.Proxies {
			label, match := name, c.Match
			if i > 0 {
				label, match = "", ""
			}
			rewrite := loc.Rewrite
			if rewrite == "" {
				rewrite = "-"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", label, match, loc.URL, rewrite)
		}
	}
	return w.Flush()
}

func showComposer(stdout io.Writer, c *manifest.Composer) error {
	if handled, err := writeStructured(stdout, c); handled {
		return err
	}

	if c == nil {
		_, _ = fmt.Fprintln(stdout, "Composer is turned off for this site.")
		return nil
	}

	names := make([]string, 0, len(c.Require))
	for name := range c.Require {
		names = append(names, name)
	}
	sort.Strings(names)

	_, _ = fmt.Fprintf(stdout, "Requirements (%d):\n", len(names))
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, c.Require[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(c.Repositories) == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "\nRepositories (%d):\n", len(c.Repositories))
	for _, r := range c.Repositories {
		_, _ = fmt.Fprintf(stdout, "  %s\n", describeRepository(r))
	}
	return nil
}

func describeRepository(r manifest.Repository) string {
	if r.Package == nil {
		return fmt.Sprintf("%s %s", r.Type, r.URL)
	}

	var origins []string
	if r.Package.Source != nil {
		origins = append(origins, fmt.Sprintf("source %s (%s)", r.Package.Source.URL, r.Package.Source.Type))
	}
	if r.Package.Dist != nil {
		origins = append(origins, fmt.Sprintf("dist %s (%s)", r.Package.Dist.URL, r.Package.Dist.Type))
	}
	return fmt.Sprintf("package %s@%s [%s] %s", r.Package.Name, r.Package.Version, r.Package.Type, strings.Join(origins, ", "))
}
