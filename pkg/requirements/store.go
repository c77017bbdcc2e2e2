// Package requirements manages the declared-requirements store and the
// resolve workflow that reconciles it with detected package usage.
//
// The store is a line-oriented text file: one package per line, blank
// lines and lines beginning with # ignored. Reads are tolerant of
// arbitrary whitespace and ordering; writes are canonical (sorted,
// deduplicated, with a header identifying the generating tool) and atomic
// (write-temp-then-rename), so a crash mid-write never corrupts the store.
package requirements

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/texenv/texenv/pkg/errors"
	"github.com/texenv/texenv/pkg/texpkg"
)

// DefaultFilename is the requirements file name at the project root.
const DefaultFilename = "latex-requirements.txt"

var header = []string{
	"# LaTeX package requirements",
	"# Generated by texenv resolve",
	"",
}

// Store reads and writes the declared requirement set.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Read loads the declared requirement set. A missing file is an empty set,
// not an error. Version specifiers (pkg==1.0, pkg>=2) are tolerated on
// input and stripped to the bare package name.
func (s *Store) Read() ([]texpkg.PackageID, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, err, "requirements file %s", s.path)
	}
	defer f.Close()

	seen := map[string]bool{}
	var pkgs []texpkg.PackageID

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := stripVersion(line)
		if name != "" && !seen[name] {
			seen[name] = true
			pkgs = append(pkgs, texpkg.PackageID(name))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, err, "requirements file %s", s.path)
	}
	return pkgs, nil
}

// Write persists the requirement set in canonical form: deduplicated,
// sorted, one package per line under the header comment. The write is
// atomic; on failure no partial file is left behind.
func (s *Store) Write(pkgs []texpkg.PackageID) error {
	seen := map[texpkg.PackageID]bool{}
	var unique []texpkg.PackageID
	for _, p := range pkgs {
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	var b strings.Builder
	for _, h := range header {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	for _, p := range unique {
		fmt.Fprintf(&b, "%s\n", p)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".requirements-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "requirements file %s", s.path)
	}
	tmpName := tmp.Name()

	// CreateTemp uses 0600; the store is a regular project file.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "requirements file %s", s.path)
	}

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "requirements file %s", s.path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "requirements file %s", s.path)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "requirements file %s", s.path)
	}
	return nil
}

// Add appends packages to the store, keeping it canonical.
func (s *Store) Add(pkgs ...texpkg.PackageID) error {
	existing, err := s.Read()
	if err != nil {
		return err
	}
	return s.Write(append(existing, pkgs...))
}

// Remove deletes packages from the store, keeping it canonical.
func (s *Store) Remove(pkgs ...texpkg.PackageID) error {
	existing, err := s.Read()
	if err != nil {
		return err
	}
	drop := map[texpkg.PackageID]bool{}
	for _, p := range pkgs {
		drop[p] = true
	}
	var kept []texpkg.PackageID
	for _, p := range existing {
		if !drop[p] {
			kept = append(kept, p)
		}
	}
	return s.Write(kept)
}

// stripVersion removes a trailing version specifier from a requirement
// line (pkg==1.0, pkg>=2, pkg<=3).
func stripVersion(line string) string {
	for _, sep := range []string{"==", ">=", "<="} {
		if i := strings.Index(line, sep); i >= 0 {
			line = line[:i]
		}
	}
	return strings.TrimSpace(line)
}
