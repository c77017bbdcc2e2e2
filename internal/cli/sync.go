package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texenv/texenv/pkg/envsync"
)

// newSyncCmd creates the sync command.
func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Install missing packages into the local environment",
		Long: `Install every package from the requirements file that is missing from
the project-local environment.

Sync is additive: packages installed locally but absent from the
requirements file are left alone. Use 'texenv remove' to uninstall.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			p, err := currentProject()
			if err != nil {
				return err
			}
			if !p.EnvExists() {
				return fmt.Errorf("no environment at %s; run 'texenv init' first", p.EnvDir())
			}

			required, err := p.Store().Read()
			if err != nil {
				return err
			}
			if len(required) == 0 {
				printInfo("Requirements file is empty, nothing to sync")
				return nil
			}

			prog := newProgress(logger)
			rep, err := newReconciler(ctx, p).Sync(ctx, required)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Synced %d requirements", len(required)))

			printReport(rep)
			if !rep.OK() {
				return fmt.Errorf("%d package(s) failed to install", len(rep.Failed))
			}
			return nil
		},
	}
}

// printReport prints a reconcile report to stdout.
func printReport(rep *envsync.Report) {
	for _, pkg := range rep.Installed {
		printSuccess("installed %s", StyleHighlight.Render(string(pkg)))
	}
	for _, pkg := range rep.Removed {
		printSuccess("removed %s", StyleHighlight.Render(string(pkg)))
	}
	if n := len(rep.Skipped); n > 0 {
		printDetail("%d already satisfied", n)
	}
	for _, w := range rep.Warnings {
		printWarning("%s", w)
	}
	for _, f := range rep.Failed {
		printError("%s: %s", f.Package, f.Reason)
	}
}
