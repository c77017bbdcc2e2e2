package requirements

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolveDryRunDoesNotWrite(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), DefaultFilename))
	if err := s.Write([]string{"amsmath"}); err != nil {
		t.Fatal(err)
	}

	rep, err := NewResolver(s).Resolve([]string{"amsmath", "hyperref"}, DryRun)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if !reflect.DeepEqual([]string(rep.Diff.ToAdd), []string{"hyperref"}) {
		t.Errorf("ToAdd = %v, want [hyperref]", rep.Diff.ToAdd)
	}
	if rep.Committed {
		t.Error("DryRun must not commit")
	}

	declared, _ := s.Read()
	if !reflect.DeepEqual([]string(declared), []string{"amsmath"}) {
		t.Errorf("store changed in DryRun: %v", declared)
	}
}

func TestResolveAutoUpdateOverwrites(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), DefaultFilename))
	if err := s.Write([]string{"stale", "amsmath"}); err != nil {
		t.Fatal(err)
	}

	rep, err := NewResolver(s).Resolve([]string{"amsmath", "hyperref"}, AutoUpdate)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !rep.Committed {
		t.Error("AutoUpdate should commit")
	}
	if !reflect.DeepEqual([]string(rep.Diff.ToRemove), []string{"stale"}) {
		t.Errorf("ToRemove = %v, want [stale]", rep.Diff.ToRemove)
	}

	declared, _ := s.Read()
	if !reflect.DeepEqual([]string(declared), []string{"amsmath", "hyperref"}) {
		t.Errorf("store = %v, want overwritten with detected set", declared)
	}
}

func TestResolveInteractiveCommitIsExplicit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), DefaultFilename))
	r := NewResolver(s)

	rep, err := r.Resolve([]string{"booktabs"}, Interactive)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rep.Committed {
		t.Error("Interactive resolve must not commit on its own")
	}

	declared, _ := s.Read()
	if len(declared) != 0 {
		t.Errorf("store written before Commit: %v", declared)
	}

	if err := r.Commit(rep); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !rep.Committed {
		t.Error("Commit should mark the report committed")
	}
	declared, _ = s.Read()
	if !reflect.DeepEqual([]string(declared), []string{"booktabs"}) {
		t.Errorf("store = %v after Commit", declared)
	}
}
