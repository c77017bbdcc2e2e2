package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/texenv/texenv/pkg/compile"
)

// newCompileCmd creates the compile command.
func newCompileCmd() *cobra.Command {
	var clean bool

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the document inside the local environment",
		Long: `Compile the configured main file with the configured engine, resolving
packages from the project-local environment.

Documents with a bibliography automatically get the full pass sequence
(engine, biber or bibtex, two settling passes).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			p, err := currentProject()
			if err != nil {
				return err
			}

			outputDir := filepath.Join(p.Root, p.Config.Project.OutputDir)
			if clean {
				if err := os.RemoveAll(outputDir); err != nil {
					return err
				}
				logger.Debugf("cleaned %s", outputDir)
			}

			c := compile.New(p.Config.Project.Engine, outputDir, p.TexmfDir(), compile.Options{
				Logger: func(format string, args ...any) { logger.Debugf(format, args...) },
			})

			mainFile := filepath.Join(p.Root, p.Config.Project.TexFile)
			spin := newSpinnerWithContext(ctx, "compiling "+p.Config.Project.TexFile)
			spin.Start()

			prog := newProgress(logger)
			res, err := c.Compile(ctx, mainFile)
			spin.Stop()
			if res != nil {
				for _, w := range res.Warnings {
					printWarning("%s", w)
				}
			}
			if err != nil {
				return err
			}
			prog.done("Compiled")

			printSuccess("Built %s", StyleHighlight.Render(p.Config.Project.TexFile))
			printFile(res.PDFPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "remove the output directory before compiling")

	return cmd
}
