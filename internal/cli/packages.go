package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texenv/texenv/pkg/texpkg"
)

// newAddCmd creates the add command.
func newAddCmd() *cobra.Command {
	var noInstall bool

	cmd := &cobra.Command{
		Use:   "add <package>...",
		Short: "Add packages to the requirements file and install them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := currentProject()
			if err != nil {
				return err
			}

			pkgs := make([]texpkg.PackageID, 0, len(args))
			for _, name := range args {
				if texpkg.IsCore(name) {
					printDetail("%s ships with every distribution, not recording it", name)
					continue
				}
				pkgs = append(pkgs, texpkg.PackageID(name))
			}
			if len(pkgs) == 0 {
				printInfo("Nothing to add")
				return nil
			}

			if err := p.Store().Add(pkgs...); err != nil {
				return err
			}
			printSuccess("Added %d package(s) to %s", len(pkgs), p.RequirementsPath())

			if noInstall {
				printNextStep("Install them into the environment", "texenv sync")
				return nil
			}
			if !p.EnvExists() {
				printWarning("no environment yet; run 'texenv init' then 'texenv sync'")
				return nil
			}

			rep, err := newReconciler(ctx, p).Sync(ctx, pkgs)
			if err != nil {
				return err
			}
			printReport(rep)
			if !rep.OK() {
				return fmt.Errorf("%d package(s) failed to install", len(rep.Failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noInstall, "no-install", false, "only record the packages, do not install")

	return cmd
}

// newRemoveCmd creates the remove command.
func newRemoveCmd() *cobra.Command {
	var keepFiles bool

	cmd := &cobra.Command{
		Use:     "remove <package>...",
		Aliases: []string{"rm"},
		Short:   "Remove packages from the requirements file and uninstall them",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := currentProject()
			if err != nil {
				return err
			}

			pkgs := make([]texpkg.PackageID, 0, len(args))
			for _, name := range args {
				pkgs = append(pkgs, texpkg.PackageID(name))
			}

			if err := p.Store().Remove(pkgs...); err != nil {
				return err
			}
			printSuccess("Removed %d package(s) from %s", len(pkgs), p.RequirementsPath())

			if keepFiles || !p.EnvExists() {
				return nil
			}

			rep, err := newReconciler(ctx, p).Remove(ctx, pkgs)
			if err != nil {
				return err
			}
			printReport(rep)
			if !rep.OK() {
				return fmt.Errorf("%d package(s) failed to uninstall", len(rep.Failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepFiles, "keep-files", false, "only edit the requirements file, leave installed files in place")

	return cmd
}
