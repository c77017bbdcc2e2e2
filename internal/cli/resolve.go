package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/texenv/texenv/pkg/requirements"
	"github.com/texenv/texenv/pkg/scan"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	update   bool // write the detected set without asking
	noUpdate bool // never write, equivalent to --dry-run
	dryRun   bool // only show the diff
}

// newResolveCmd creates the resolve command.
func newResolveCmd() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Detect required packages from the LaTeX sources",
		Long: `Detect required packages by scanning the project's LaTeX sources.

The scan starts at the configured main file, follows \input, \include and
\subfile inclusions, and collects both explicit \usepackage declarations and
packages inferred from command usage (for example \includegraphics implies
graphicx). Core packages that ship with every LaTeX distribution are
excluded, as are local .sty files living in the project.

The detected set is diffed against the requirements file. By default you
are asked before the file is updated; --update writes it unconditionally
and --dry-run only shows the diff.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.update && (opts.dryRun || opts.noUpdate) {
				return fmt.Errorf("--update cannot be combined with --dry-run or --no-update")
			}
			return runResolve(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.update, "update", false, "update the requirements file without confirmation")
	cmd.Flags().BoolVar(&opts.noUpdate, "no-update", false, "never update the requirements file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show the diff without writing anything")

	return cmd
}

func runResolve(cmd *cobra.Command, opts resolveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, err := currentProject()
	if err != nil {
		return err
	}
	mainFile := filepath.Join(p.Root, p.Config.Project.TexFile)

	prog := newProgress(logger)
	res, err := scan.NewWalker(p.Root).Walk(mainFile)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}

	detected := scan.NewDetector(p.Root).Detect(res.Files)
	prog.done(fmt.Sprintf("Scanned %d files, detected %d packages", len(res.Files), len(detected)))

	mode := requirements.Interactive
	switch {
	case opts.update:
		mode = requirements.AutoUpdate
	case opts.dryRun || opts.noUpdate:
		mode = requirements.DryRun
	}

	resolver := requirements.NewResolver(p.Store())
	rep, err := resolver.Resolve(detected, mode)
	if err != nil {
		return err
	}

	if rep.Diff.Empty() {
		printSuccess("Requirements file is up to date (%d packages)", len(rep.Declared))
		return nil
	}

	switch mode {
	case requirements.AutoUpdate:
		printDiff(rep)
		printSuccess("Updated %s", requirements.DefaultFilename)
		printNextStep("Install them into the environment", "texenv sync")
	case requirements.DryRun:
		printDiff(rep)
		printInfo("Dry run, nothing written")
	default:
		ok := confirm(
			"Requirements changed",
			diffLines(rep),
			fmt.Sprintf("Update %s?", requirements.DefaultFilename),
		)
		if !ok {
			printInfo("Requirements file left untouched")
			return nil
		}
		if err := resolver.Commit(rep); err != nil {
			return err
		}
		printSuccess("Updated %s", requirements.DefaultFilename)
		printNextStep("Install them into the environment", "texenv sync")
	}
	return nil
}

// printDiff prints a resolve report's diff to stdout.
func printDiff(rep *requirements.Report) {
	for _, pkg := range rep.Diff.ToAdd {
		printDiffLine("+", string(pkg))
	}
	for _, pkg := range rep.Diff.ToRemove {
		printDiffLine("-", string(pkg))
	}
}

// diffLines renders the diff as styled lines for the confirmation prompt.
func diffLines(rep *requirements.Report) []string {
	var lines []string
	for _, pkg := range rep.Diff.ToAdd {
		lines = append(lines, "  "+styleAdd.Render("+ "+string(pkg)))
	}
	for _, pkg := range rep.Diff.ToRemove {
		lines = append(lines, "  "+styleRemove.Render("- "+string(pkg)))
	}
	return lines
}
