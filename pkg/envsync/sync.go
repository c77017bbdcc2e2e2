// Package envsync reconciles a required package set against the packages
// installed in the project-local TeX environment.
//
// The reconciler computes the minimal install/remove delta and applies it
// through a [Backend], one package at a time, so partial-failure
// attribution is unambiguous. A single package's failure never aborts the
// batch: it is recorded in the [Report] and processing continues.
package envsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/texenv/texenv/pkg/texpkg"
)

// Backend is the package manager collaborator. All operations are scoped
// to the project-local environment, never the system-global one.
type Backend interface {
	// ListInstalled reports the packages currently installed in the
	// local environment. Queried fresh on every reconcile; never cached
	// across invocations.
	ListInstalled(ctx context.Context) ([]texpkg.DistPackageID, error)
	// Install installs one package. It may return an *InstallWarning to
	// signal success with a non-fatal condition.
	Install(ctx context.Context, pkg texpkg.DistPackageID) error
	// Uninstall removes one package.
	Uninstall(ctx context.Context, pkg texpkg.DistPackageID) error
}

// InstallWarning signals that a package installed successfully but a
// non-fatal sub-step failed (typically font map regeneration). The
// reconciler classifies the package as installed and records the message
// as a warning.
type InstallWarning struct {
	Msg string
}

func (w *InstallWarning) Error() string { return w.Msg }

// Failure records a package operation that failed and why.
type Failure struct {
	Package texpkg.DistPackageID
	Reason  string
}

// Report aggregates the outcome of a reconcile pass.
type Report struct {
	Installed []texpkg.DistPackageID
	Removed   []texpkg.DistPackageID
	Skipped   []texpkg.DistPackageID // already satisfied (or core, for removals)
	Failed    []Failure
	Warnings  []string
}

// OK reports whether the pass completed without backend failures.
// Warnings alone do not fail a pass.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// Options configures a Reconciler.
type Options struct {
	// Logger receives progress messages. Defaults to a no-op.
	Logger func(format string, args ...any)
}

// Reconciler applies requirement sets to the local environment.
type Reconciler struct {
	backend Backend
	logf    func(format string, args ...any)
}

// New creates a Reconciler over the given backend.
func New(backend Backend, opts Options) *Reconciler {
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Reconciler{backend: backend, logf: logf}
}

// Sync installs every required package that is missing from the local
// environment. Packages already installed are classified as skipped.
//
// Sync never uninstalls: packages present locally but absent from the
// required set are left alone, so a stale requirement set cannot cause
// destructive surprises. Removal happens only through [Reconciler.Remove].
func (r *Reconciler) Sync(ctx context.Context, required []texpkg.PackageID) (*Report, error) {
	target := texpkg.MapAll(required)

	installed, err := r.backend.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}

	diff := texpkg.Diff(target, installed)
	rep := &Report{Skipped: diff.Unchanged}

	for _, pkg := range diff.ToAdd {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		r.logf("installing %s", pkg)
		r.apply(ctx, rep, pkg, r.backend.Install, &rep.Installed)
	}
	return rep, nil
}

// Remove uninstalls the named packages from the local environment. Core
// packages and packages that are not installed are classified as skipped.
func (r *Reconciler) Remove(ctx context.Context, pkgs []texpkg.PackageID) (*Report, error) {
	installed, err := r.backend.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}
	present := map[texpkg.DistPackageID]bool{}
	for _, p := range installed {
		present[p] = true
	}

	rep := &Report{}
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		m := texpkg.Map(pkg)
		if m.Kind == texpkg.KindCore {
			r.logf("skipping %s (core package, cannot be removed)", pkg)
			rep.Skipped = append(rep.Skipped, texpkg.DistPackageID(pkg))
			continue
		}
		if !present[m.Dist] {
			r.logf("skipping %s (not installed)", m.Dist)
			rep.Skipped = append(rep.Skipped, m.Dist)
			continue
		}
		r.logf("removing %s", m.Dist)
		r.apply(ctx, rep, m.Dist, r.backend.Uninstall, &rep.Removed)
	}
	return rep, nil
}

// apply runs one backend operation and files the result. InstallWarning
// results count as success with a recorded warning.
func (r *Reconciler) apply(ctx context.Context, rep *Report, pkg texpkg.DistPackageID, op func(context.Context, texpkg.DistPackageID) error, done *[]texpkg.DistPackageID) {
	err := op(ctx, pkg)
	if err == nil {
		*done = append(*done, pkg)
		return
	}
	var warn *InstallWarning
	if errors.As(err, &warn) {
		*done = append(*done, pkg)
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %s", pkg, warn.Msg))
		return
	}
	rep.Failed = append(rep.Failed, Failure{Package: pkg, Reason: err.Error()})
}
