package cli

import (
	"github.com/spf13/cobra"
)

// newCleanCmd creates the clean command.
func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the local environment",
		Long: `Delete the project's .texenv directory, including every installed
package and the cache. The configuration and requirements files are kept,
so 'texenv init' followed by 'texenv sync' restores the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := currentProject()
			if err != nil {
				return err
			}
			if err := p.RemoveEnv(); err != nil {
				return err
			}
			printSuccess("Removed %s", StyleHighlight.Render(p.EnvDir()))
			printNextStep("Recreate it", "texenv init && texenv sync")
			return nil
		},
	}
}
