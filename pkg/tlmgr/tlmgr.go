// Package tlmgr drives the TeX Live package manager in user mode, scoped
// to a project-local texmf tree. It implements the backend contract of
// [github.com/texenv/texenv/pkg/envsync].
//
// All tlmgr invocations run with TEXMFHOME pointing at the project's
// .texenv/texmf directory, so nothing touches the system-global TeX tree.
package tlmgr

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/texenv/texenv/pkg/cache"
	"github.com/texenv/texenv/pkg/envsync"
	"github.com/texenv/texenv/pkg/errors"
	"github.com/texenv/texenv/pkg/texpkg"
)

// DefaultSearchTTL is how long tlmgr search results stay cached. Search
// answers only change when the distribution's file index does.
const DefaultSearchTTL = 7 * 24 * time.Hour

// Result holds the outcome of one command invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands. Tests substitute a fake.
type Runner interface {
	// Run executes name with args and the given extra environment.
	// A non-zero exit is reported through Result, not the error; the
	// error is reserved for failures to start the process at all.
	Run(ctx context.Context, extraEnv []string, name string, args ...string) (Result, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, extraEnv []string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), extraEnv...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// Options configures a Manager.
type Options struct {
	// Cache memoizes search results. Defaults to no caching.
	Cache cache.Cache
	// Runner executes tlmgr. Defaults to the real binary.
	Runner Runner
	// Logger receives progress messages. Defaults to a no-op.
	Logger func(format string, args ...any)
}

// Manager is the tlmgr user-mode backend for one project environment.
type Manager struct {
	texmf  string
	cache  cache.Cache
	run    Runner
	logf   func(format string, args ...any)
	initMu sync.Mutex
	inited bool
}

// New creates a Manager operating on the texmf tree at texmfDir.
func New(texmfDir string, opts Options) *Manager {
	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	r := opts.Runner
	if r == nil {
		r = execRunner{}
	}
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Manager{texmf: texmfDir, cache: c, run: r, logf: logf}
}

func (m *Manager) env() []string {
	return []string{"TEXMFHOME=" + m.texmf}
}

// initUserTree runs tlmgr init-usertree once per process. A tree that
// already exists is fine.
func (m *Manager) initUserTree(ctx context.Context) error {
	m.initMu.Lock()
	defer m.initMu.Unlock()
	if m.inited {
		return nil
	}

	res, err := m.run.Run(ctx, m.env(), "tlmgr", "init-usertree")
	if err != nil {
		return notFoundErr(err)
	}
	if res.ExitCode != 0 && !strings.Contains(res.Stderr, "already exists") {
		m.logf("tlmgr init-usertree: %s", strings.TrimSpace(res.Stderr))
	}
	m.inited = true
	return nil
}

// ListInstalled reports the packages installed in the local tree.
func (m *Manager) ListInstalled(ctx context.Context) ([]texpkg.DistPackageID, error) {
	if err := m.initUserTree(ctx); err != nil {
		return nil, err
	}

	res, err := m.run.Run(ctx, m.env(), "tlmgr", "--usermode", "info", "--only-installed", "--data", "name")
	if err != nil {
		return nil, notFoundErr(err)
	}
	if res.ExitCode != 0 {
		return nil, errors.New(errors.ErrCodeBackend, "tlmgr info failed: %s", strings.TrimSpace(res.Stderr))
	}

	var pkgs []texpkg.DistPackageID
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			pkgs = append(pkgs, texpkg.DistPackageID(line))
		}
	}
	return pkgs, nil
}

// Install installs one package into the local tree. It first tries with
// --no-depends-at-all to sidestep dependency and font map trouble, then
// falls back to a plain install. A package that fails as "not present in
// repository" is re-resolved through Search before giving up.
func (m *Manager) Install(ctx context.Context, pkg texpkg.DistPackageID) error {
	if err := m.initUserTree(ctx); err != nil {
		return err
	}

	err := m.tryInstall(ctx, pkg)
	if err == nil || !errors.Is(err, errors.ErrCodeNotFound) {
		return err
	}

	// Not in the repository under this name; the .sty may ship inside a
	// differently named distribution package.
	m.logf("package %s not found, searching for it", pkg)
	resolved, serr := m.Search(ctx, string(pkg))
	if serr != nil || resolved == string(pkg) {
		return err
	}
	m.logf("found %s in package %s", pkg, resolved)
	return m.tryInstall(ctx, texpkg.DistPackageID(resolved))
}

func (m *Manager) tryInstall(ctx context.Context, pkg texpkg.DistPackageID) error {
	res, err := m.run.Run(ctx, m.env(), "tlmgr", "--usermode", "install", "--no-depends-at-all", string(pkg))
	if err != nil {
		return notFoundErr(err)
	}
	if status := classifyInstall(res); status != nil {
		return statusErr(status)
	}

	// Retry without the special flag before declaring failure.
	res, err = m.run.Run(ctx, m.env(), "tlmgr", "--usermode", "install", string(pkg))
	if err != nil {
		return notFoundErr(err)
	}
	if status := classifyInstall(res); status != nil {
		return statusErr(status)
	}

	if strings.Contains(res.Stderr, "not present in repository") {
		return errors.New(errors.ErrCodeNotFound, "package %s not present in repository", pkg)
	}
	return errors.New(errors.ErrCodeBackend, "tlmgr install %s failed: %s", pkg, firstLine(res.Stderr, res.Stdout))
}

// installStatus is the non-failure classification of an install attempt.
type installStatus struct {
	fontMapWarning bool
}

// classifyInstall returns a status for successful outcomes and nil when
// the attempt failed. Exit code 0 and "already installed" both count as
// success. An updmap failure after the files landed is success with a
// font map warning.
func classifyInstall(res Result) *installStatus {
	if res.ExitCode == 0 {
		return &installStatus{}
	}
	if strings.Contains(res.Stdout, "already installed") || strings.Contains(res.Stderr, "already installed") {
		return &installStatus{}
	}
	if strings.Contains(res.Stderr, "updmap") && strings.Contains(res.Stdout, "install:") {
		return &installStatus{fontMapWarning: true}
	}
	return nil
}

func statusErr(s *installStatus) error {
	if s.fontMapWarning {
		return &envsync.InstallWarning{Msg: "installed, but font map regeneration failed"}
	}
	return nil
}

// Uninstall removes one package from the local tree. Removing a package
// that is not installed is not an error.
func (m *Manager) Uninstall(ctx context.Context, pkg texpkg.DistPackageID) error {
	if err := m.initUserTree(ctx); err != nil {
		return err
	}

	res, err := m.run.Run(ctx, m.env(), "tlmgr", "--usermode", "remove", string(pkg))
	if err != nil {
		return notFoundErr(err)
	}
	if res.ExitCode == 0 {
		return nil
	}
	if strings.Contains(res.Stdout, "not installed") || strings.Contains(res.Stderr, "not installed") {
		return nil
	}
	return errors.New(errors.ErrCodeBackend, "tlmgr remove %s failed: %s", pkg, firstLine(res.Stderr, res.Stdout))
}

func notFoundErr(err error) error {
	return errors.Wrap(errors.ErrCodeBackendNotFound, err, "tlmgr not found; install TeX Live first")
}

func firstLine(candidates ...string) string {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c != "" {
			if i := strings.IndexByte(c, '\n'); i >= 0 {
				c = c[:i]
			}
			return c
		}
	}
	return "unknown error"
}

var _ envsync.Backend = (*Manager)(nil)
