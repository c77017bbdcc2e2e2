package scan

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/texenv/texenv/pkg/texpkg"
)

// Detector scans walked source files for required LaTeX packages. The
// trigger and implication tables are fields so tests can substitute them;
// production code uses the compiled-in defaults.
type Detector struct {
	Triggers map[string][]*regexp.Regexp
	Implied  map[string][]string

	localStyles map[string]bool
}

// NewDetector creates a Detector for the project rooted at root. Any .sty
// file sitting in the project root shadows the package of the same name:
// it is provided locally and never becomes a requirement.
func NewDetector(root string) *Detector {
	styles := map[string]bool{}
	matches, _ := filepath.Glob(filepath.Join(root, "*.sty"))
	for _, m := range matches {
		styles[strings.TrimSuffix(filepath.Base(m), ".sty")] = true
	}
	return &Detector{
		Triggers:    defaultTriggers,
		Implied:     defaultImplied,
		localStyles: styles,
	}
}

// Detect returns the deduplicated, lexicographically sorted requirement
// set for the given file set. Detection is presence-only and deterministic:
// the same files always yield the same result.
//
// Local style files are excluded from inference entirely, regardless of
// their content. Core packages are dropped from the result since they
// require no installation.
func (d *Detector) Detect(files []SourceFile) []texpkg.PackageID {
	found := map[string]bool{}

	for _, f := range files {
		if f.IsStyle {
			continue
		}
		d.scanFile(f.Content, found)
	}

	// Load-time implications expand after accumulation so a triggered
	// package pulls in its hard dependencies.
	for pkg, deps := range d.Implied {
		if found[pkg] {
			for _, dep := range deps {
				found[dep] = true
			}
		}
	}

	var result []texpkg.PackageID
	for pkg := range found {
		if texpkg.IsCore(pkg) || d.localStyles[pkg] {
			continue
		}
		result = append(result, texpkg.PackageID(pkg))
	}
	sort.Strings(result)
	return result
}

// scanFile accumulates explicit declarations and trigger matches from one
// file's content. Comment text never contributes.
func (d *Detector) scanFile(content string, found map[string]bool) {
	var code strings.Builder
	for _, line := range strings.Split(content, "\n") {
		code.WriteString(stripComment(line))
		code.WriteByte('\n')
	}
	text := code.String()

	for _, m := range usepackageRE.FindAllStringSubmatch(text, -1) {
		for _, pkg := range strings.Split(m[1], ",") {
			pkg = strings.TrimSpace(pkg)
			if pkg != "" {
				found[pkg] = true
			}
		}
	}

	for pkg, patterns := range d.Triggers {
		if found[pkg] {
			continue
		}
		for _, re := range patterns {
			if re.MatchString(text) {
				found[pkg] = true
				break
			}
		}
	}
}

// HasLocalStyle reports whether the project provides pkg as a local .sty.
func (d *Detector) HasLocalStyle(pkg string) bool {
	return d.localStyles[pkg]
}
