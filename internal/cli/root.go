package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/texenv/texenv/pkg/cache"
	"github.com/texenv/texenv/pkg/envsync"
	"github.com/texenv/texenv/pkg/project"
	"github.com/texenv/texenv/pkg/tlmgr"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. This is
// typically called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the texenv CLI and returns an error if any command fails.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "texenv",
		Short:        "texenv manages project-local LaTeX package environments",
		Long:         `texenv keeps each LaTeX project's packages in an isolated environment: it detects which packages your sources use, records them in a requirements file, and installs exactly those into a project-local TeX tree.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("texenv %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newInitCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newCompileCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newCleanCmd())

	return root.ExecuteContext(ctx)
}

// currentProject locates and loads the project enclosing the working
// directory.
func currentProject() (*project.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := project.Find(cwd)
	if err != nil {
		return nil, err
	}
	return project.Load(root)
}

// newReconciler builds the tlmgr-backed reconciler for a project, with
// search results cached in the environment's cache directory.
func newReconciler(ctx context.Context, p *project.Project) *envsync.Reconciler {
	logger := loggerFromContext(ctx)

	var c cache.Cache
	fc, err := cache.NewFileCache(p.CacheDir())
	if err != nil {
		logger.Warnf("cache disabled: %v", err)
		c = cache.NewNullCache()
	} else {
		c = fc
	}

	backend := tlmgr.New(p.TexmfDir(), tlmgr.Options{
		Cache:  c,
		Logger: func(format string, args ...any) { logger.Debugf(format, args...) },
	})
	return envsync.New(backend, envsync.Options{
		Logger: func(format string, args ...any) { logger.Infof(format, args...) },
	})
}
