package requirements

import "github.com/texenv/texenv/pkg/texpkg"

// Mode controls how Resolve treats the declared store.
type Mode int

const (
	// Interactive computes the diff and leaves the commit decision to
	// the caller. The core performs no terminal interaction itself; the
	// CLI surfaces the diff and calls Commit on confirmation.
	Interactive Mode = iota
	// AutoUpdate overwrites the declared store with the detected set
	// unconditionally.
	AutoUpdate
	// DryRun computes the diff without mutating anything.
	DryRun
)

// Report is the outcome of a resolve pass: the detected and declared sets
// and their diff. Committed records whether the store was written.
type Report struct {
	Detected  []texpkg.PackageID
	Declared  []texpkg.PackageID
	Diff      texpkg.DiffResult[texpkg.PackageID]
	Mode      Mode
	Committed bool
}

// Resolver diffs a freshly detected requirement set against the declared
// store and, depending on mode, persists the detected set.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve computes the diff between detected and the declared store. In
// AutoUpdate mode the store is overwritten with detected before returning.
// In Interactive and DryRun modes the store is untouched; Interactive
// callers invoke Commit after obtaining a decision.
//
// The diff is always fully computed before any write, so a failed write
// never leaves a half-applied report.
func (r *Resolver) Resolve(detected []texpkg.PackageID, mode Mode) (*Report, error) {
	declared, err := r.store.Read()
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Detected: detected,
		Declared: declared,
		Diff:     texpkg.Diff(detected, declared),
		Mode:     mode,
	}

	if mode == AutoUpdate {
		if err := r.Commit(rep); err != nil {
			return nil, err
		}
	}
	return rep, nil
}

// Commit overwrites the declared store with the report's detected set.
func (r *Resolver) Commit(rep *Report) error {
	if err := r.store.Write(rep.Detected); err != nil {
		return err
	}
	rep.Committed = true
	return nil
}
