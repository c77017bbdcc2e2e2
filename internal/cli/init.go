package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/texenv/texenv/pkg/project"
)

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	cfg := project.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a project-local LaTeX environment",
		Long: `Create a project-local LaTeX environment in the given directory
(default: current directory).

This scaffolds the .texenv directory with an isolated texmf tree, writes a
texenv.toml configuration and an empty requirements file. Existing
configuration and requirements files are preserved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if !project.ValidEngine(cfg.Project.Engine) {
				return fmt.Errorf("unknown engine %q (supported: %s)",
					cfg.Project.Engine, strings.Join(project.Engines, ", "))
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			p, err := project.Init(dir, cfg)
			if err != nil {
				return err
			}

			printSuccess("Created environment in %s", StyleHighlight.Render(p.EnvDir()))
			printDetail("config: %s", project.ConfigFilename)
			printDetail("requirements: %s", p.RequirementsPath())
			printNewline()
			printNextStep("Detect packages from your sources", "texenv resolve")
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Project.TexFile, "texfile", cfg.Project.TexFile, "main LaTeX file")
	cmd.Flags().StringVar(&cfg.Project.Engine, "engine", cfg.Project.Engine, "LaTeX engine (pdflatex, xelatex, lualatex, latex)")
	cmd.Flags().StringVar(&cfg.Project.OutputDir, "output-dir", cfg.Project.OutputDir, "compilation output directory")

	return cmd
}
