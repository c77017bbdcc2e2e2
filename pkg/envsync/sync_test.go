package envsync

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/texenv/texenv/pkg/texpkg"
)

// fakeBackend records operations and fails on demand.
type fakeBackend struct {
	installed  []texpkg.DistPackageID
	listErr    error
	installErr map[texpkg.DistPackageID]error
	installs   []texpkg.DistPackageID
	uninstalls []texpkg.DistPackageID
}

func (f *fakeBackend) ListInstalled(ctx context.Context) ([]texpkg.DistPackageID, error) {
	return f.installed, f.listErr
}

func (f *fakeBackend) Install(ctx context.Context, pkg texpkg.DistPackageID) error {
	if err, ok := f.installErr[pkg]; ok {
		return err
	}
	f.installs = append(f.installs, pkg)
	return nil
}

func (f *fakeBackend) Uninstall(ctx context.Context, pkg texpkg.DistPackageID) error {
	f.uninstalls = append(f.uninstalls, pkg)
	return nil
}

func TestSyncInstallsMissing(t *testing.T) {
	// Project requires {amsmath, graphicx, hyperref}; amsmath is already
	// installed; graphicx maps to the "graphics" distribution package.
	b := &fakeBackend{installed: []texpkg.DistPackageID{"amsmath"}}
	r := New(b, Options{})

	rep, err := r.Sync(context.Background(), []texpkg.PackageID{"amsmath", "graphicx", "hyperref"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if !reflect.DeepEqual(b.installs, []texpkg.DistPackageID{"graphics", "hyperref"}) {
		t.Errorf("installed %v, want [graphics hyperref]", b.installs)
	}
	if !reflect.DeepEqual(rep.Skipped, []texpkg.DistPackageID{"amsmath"}) {
		t.Errorf("Skipped = %v, want [amsmath]", rep.Skipped)
	}
	if !rep.OK() {
		t.Errorf("report should be OK, failures: %v", rep.Failed)
	}
}

func TestSyncFullySatisfiedAllSkipped(t *testing.T) {
	b := &fakeBackend{installed: []texpkg.DistPackageID{"amsmath", "hyperref"}}
	r := New(b, Options{})

	rep, err := r.Sync(context.Background(), []texpkg.PackageID{"amsmath", "hyperref"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(b.installs) != 0 {
		t.Errorf("no installs expected, got %v", b.installs)
	}
	if len(rep.Skipped) != 2 {
		t.Errorf("Skipped = %v, want both packages", rep.Skipped)
	}
}

func TestSyncNeverUninstalls(t *testing.T) {
	// A package installed locally but unreferenced by the requirement
	// set must be left alone.
	b := &fakeBackend{installed: []texpkg.DistPackageID{"orphan", "amsmath"}}
	r := New(b, Options{})

	_, err := r.Sync(context.Background(), []texpkg.PackageID{"amsmath"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(b.uninstalls) != 0 {
		t.Errorf("Sync uninstalled %v; ordinary sync must never uninstall", b.uninstalls)
	}
}

func TestSyncPartialFailure(t *testing.T) {
	b := &fakeBackend{
		installErr: map[texpkg.DistPackageID]error{
			"hyperref": fmt.Errorf("network error"),
		},
	}
	r := New(b, Options{})

	rep, err := r.Sync(context.Background(), []texpkg.PackageID{"booktabs", "hyperref"})
	if err != nil {
		t.Fatalf("Sync should not abort on a per-package failure: %v", err)
	}

	if !reflect.DeepEqual(rep.Installed, []texpkg.DistPackageID{"booktabs"}) {
		t.Errorf("Installed = %v, want [booktabs]", rep.Installed)
	}
	if len(rep.Failed) != 1 || rep.Failed[0].Package != "hyperref" {
		t.Fatalf("Failed = %v, want hyperref with a reason", rep.Failed)
	}
	if rep.Failed[0].Reason != "network error" {
		t.Errorf("Reason = %q, want the backend error", rep.Failed[0].Reason)
	}
	if rep.OK() {
		t.Error("report with failures must not be OK")
	}
}

func TestSyncFontMapWarningIsNotFailure(t *testing.T) {
	b := &fakeBackend{
		installErr: map[texpkg.DistPackageID]error{
			"cm-super": &InstallWarning{Msg: "font map regeneration failed"},
		},
	}
	r := New(b, Options{})

	rep, err := r.Sync(context.Background(), []texpkg.PackageID{"cm-super"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !reflect.DeepEqual(rep.Installed, []texpkg.DistPackageID{"cm-super"}) {
		t.Errorf("Installed = %v, want [cm-super] despite the warning", rep.Installed)
	}
	if len(rep.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one entry", rep.Warnings)
	}
	if !rep.OK() {
		t.Error("warnings alone must not fail the report")
	}
}

func TestSyncListError(t *testing.T) {
	b := &fakeBackend{listErr: fmt.Errorf("tlmgr not found")}
	r := New(b, Options{})
	if _, err := r.Sync(context.Background(), []texpkg.PackageID{"amsmath"}); err == nil {
		t.Error("Sync should fail when the installed set cannot be queried")
	}
}

func TestRemove(t *testing.T) {
	b := &fakeBackend{installed: []texpkg.DistPackageID{"graphics"}}
	r := New(b, Options{})

	rep, err := r.Remove(context.Background(), []texpkg.PackageID{"graphicx", "inputenc", "ghost"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if !reflect.DeepEqual(b.uninstalls, []texpkg.DistPackageID{"graphics"}) {
		t.Errorf("uninstalls = %v, want [graphics]", b.uninstalls)
	}
	// inputenc is core, ghost is not installed: both skipped.
	if len(rep.Skipped) != 2 {
		t.Errorf("Skipped = %v, want core and missing packages skipped", rep.Skipped)
	}
	if !reflect.DeepEqual(rep.Removed, []texpkg.DistPackageID{"graphics"}) {
		t.Errorf("Removed = %v, want [graphics]", rep.Removed)
	}
}

func TestSyncStopsBetweenPackagesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := &fakeBackend{}
	r := New(b, Options{})
	_, err := r.Sync(ctx, []texpkg.PackageID{"amsmath"})
	if err == nil {
		t.Error("Sync with a cancelled context should return its error")
	}
	if len(b.installs) != 0 {
		t.Errorf("no package operation should start after cancellation, got %v", b.installs)
	}
}
