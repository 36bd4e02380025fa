package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/wpstack/internal/backup"
	"github.com/adamancini/wpstack/internal/interactive"
	"github.com/adamancini/wpstack/internal/manifest"
	"github.com/adamancini/wpstack/internal/templates"
)

// defaultManifestName is written by init when no --path is given.
const defaultManifestName = "vmanifest.yaml"

func newInitCmd() *cobra.Command {
	var templateName string
	var outputPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new vmanifest from a starter",
		Long: `Create a new vmanifest from a built-in starter.

Available starters:
  minimal  - Local domain, database name and one plugin
  full     - Every manifest section including proxies and src

${WPSTACK_*} variables in the starter are expanded from the environment
(WPSTACK_TITLE, WPSTACK_DB_NAME, WPSTACK_LOCAL, WPSTACK_REMOTE).

Examples:
  wpstack init                        # Interactive mode
  wpstack init --template=minimal     # Direct starter selection
  wpstack init --path site/vmanifest.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), templateName, outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "", "Starter name")
	cmd.Flags().StringVar(&outputPath, "path", "", "Output path for the manifest (default ./"+defaultManifestName+")")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing manifest without asking")

	_ = cmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, name := range templates.List() {
			completions = append(completions, fmt.Sprintf("%s\t%s", name, templates.GetDescription(name)))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runInit executes the init workflow.
func runInit(stdin io.Reader, stdout, stderr io.Writer, templateName, outputPath string, force bool) error {
	session := interactive.NewSessionWithIO(stdin, stdout)

	if outputPath == "" {
		outputPath = defaultManifestName
	}

	_, statErr := os.Stat(outputPath)
	exists := statErr == nil
	if exists && !force {
		_, _ = fmt.Fprintf(stderr, "Manifest already exists at %s\n", outputPath)
		answers, err := session.Ask([]interactive.Question{{
			Type:    interactive.Confirm,
			Name:    "overwrite",
			Message: "Overwrite?",
		}})
		if err != nil {
			return err
		}
		if !answers.Bool("overwrite") {
			_, _ = fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	if templateName == "" {
		selected, err := selectTemplateInteractive(session)
		if err != nil {
			return err
		}
		templateName = selected
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}
	content := manifest.ExpandEnv(tmpl.Content)

	if err := validateTemplateContent(content); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(stdout, "\nPreview of '%s' starter:\n", templateName)
		_, _ = fmt.Fprintln(stdout, strings.Repeat("-", 40))
		lines := strings.Split(string(content), "\n")
		maxLines := 20
		if len(lines) <= maxLines {
			_, _ = fmt.Fprintln(stdout, string(content))
		} else {
			for i := 0; i < maxLines; i++ {
				_, _ = fmt.Fprintln(stdout, lines[i])
			}
			_, _ = fmt.Fprintf(stdout, "... (%d more lines)\n", len(lines)-maxLines)
		}
		_, _ = fmt.Fprintln(stdout, strings.Repeat("-", 40))
		if vars := tmpl.Variables(); len(vars) > 0 {
			_, _ = fmt.Fprintf(stdout, "Filled in from the environment: %s\n", strings.Join(vars, ", "))
		}
	}

	if exists {
		manager, err := backup.NewManager(appVersion)
		if err != nil {
			return err
		}
		bak, err := manager.Create(outputPath, "before wpstack init")
		if err != nil {
			return fmt.Errorf("failed to back up %s: %w", outputPath, err)
		}
		logger.Debug("backed up manifest", zap.String("id", bak.ID), zap.String("path", outputPath))
	}

	parentDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", parentDir, err)
	}

	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "\nCreated %s\n", outputPath)
	_, _ = fmt.Fprintln(stdout, "\nNext steps:")
	_, _ = fmt.Fprintln(stdout, "  1. Edit the manifest to describe your site")
	_, _ = fmt.Fprintln(stdout, "  2. Run 'wpstack proxies' and 'wpstack require' to add captures and dependencies")
	_, _ = fmt.Fprintln(stdout, "  3. Run 'wpstack dump all' to generate the environment")

	return nil
}

// selectTemplateInteractive asks which starter to use.
func selectTemplateInteractive(asker interactive.Asker) (string, error) {
	names := templates.List()
	if len(names) == 0 {
		return "", fmt.Errorf("no starters available")
	}

	choices := make([]interactive.Choice, 0, len(names))
	for _, name := range names {
		choices = append(choices, interactive.Choice{
			Name:  fmt.Sprintf("%-8s - %s", name, templates.GetDescription(name)),
			Value: name,
		})
	}

	answers, err := asker.Ask([]interactive.Question{{
		Type:    interactive.List,
		Name:    "template",
		Message: "Select a starter manifest:",
		Choices: choices,
	}})
	if err != nil {
		return "", err
	}
	return answers.String("template"), nil
}

// validateTemplateContent checks that content decodes as a valid manifest.
func validateTemplateContent(content []byte) error {
	_, err := manifest.Decode(defaultManifestName, content)
	return err
}
