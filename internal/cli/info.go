package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texenv/texenv/pkg/texpkg"
)

// newInfoCmd creates the info command.
func newInfoCmd() *cobra.Command {
	var showMapping bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show project and environment status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := currentProject()
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render("texenv project"))
			printKeyValue("root", p.Root)
			printKeyValue("main file", p.Config.Project.TexFile)
			printKeyValue("engine", p.Config.Project.Engine)
			printKeyValue("output dir", p.Config.Project.OutputDir)
			if p.EnvExists() {
				printKeyValue("environment", p.EnvDir())
			} else {
				printKeyValue("environment", StyleWarning.Render("not created (run 'texenv init')"))
			}

			declared, err := p.Store().Read()
			if err != nil {
				return err
			}
			printKeyValue("requirements", fmt.Sprintf("%d packages", len(declared)))

			printNewline()
			for _, pkg := range declared {
				if !showMapping {
					printDetail("%s", pkg)
					continue
				}
				switch m := texpkg.Map(pkg); {
				case m.Kind == texpkg.KindCore:
					printDetail("%s (core, never installed)", pkg)
				case m.Dist == pkg:
					printDetail("%s", pkg)
				default:
					printDetail("%s %s %s", pkg, iconArrow, m.Dist)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMapping, "mapping", false, "show the distribution package each requirement maps to")

	return cmd
}
