package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/texenv/texenv/pkg/incgraph"
	"github.com/texenv/texenv/pkg/scan"
)

// newGraphCmd creates the graph command.
func newGraphCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the file inclusion graph",
		Long: `Export the project's file inclusion graph, as scanned from the main
file, in Graphviz DOT format (default) or as an SVG when the output file
ends in .svg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := currentProject()
			if err != nil {
				return err
			}

			mainFile := filepath.Join(p.Root, p.Config.Project.TexFile)
			res, err := scan.NewWalker(p.Root).Walk(mainFile)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				printWarning("%s", w)
			}

			dot := incgraph.ToDOT(res, incgraph.Options{Root: p.Root})

			if output == "" {
				fmt.Print(dot)
				return nil
			}

			var data []byte
			if strings.HasSuffix(strings.ToLower(output), ".svg") {
				data, err = incgraph.RenderSVG(dot)
				if err != nil {
					return err
				}
			} else {
				data = []byte(dot)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote inclusion graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout DOT if empty, SVG for .svg files)")

	return cmd
}
