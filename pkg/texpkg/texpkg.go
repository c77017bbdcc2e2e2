// Package texpkg defines the LaTeX and distribution package namespaces and
// the static mapping between them.
//
// A [PackageID] is a package name as written in a \usepackage declaration.
// A [DistPackageID] is the name of the TeX Live package that ships it. Most
// packages use the same name in both namespaces, so unmapped names pass
// through unchanged. A small catalog of core packages ships with every
// LaTeX base installation and never needs installing; [Map] classifies
// those as [KindCore].
package texpkg

import "sort"

// PackageID is a LaTeX-space package name, case-sensitive, as written in
// \usepackage{...}.
type PackageID = string

// DistPackageID is a distribution-space (TeX Live) package name used by the
// install backend.
type DistPackageID = string

// MappingKind classifies the result of mapping a PackageID.
type MappingKind int

const (
	// KindDistribution means the package maps to an installable
	// distribution package.
	KindDistribution MappingKind = iota
	// KindCore means the package is part of the LaTeX base system and
	// requires no installation.
	KindCore
)

// MappingResult is the outcome of mapping a LaTeX package name into the
// distribution namespace.
type MappingResult struct {
	Kind MappingKind
	Dist DistPackageID // valid only when Kind == KindDistribution
}

// corePackages are part of every LaTeX base installation and are never
// installed or uninstalled.
var corePackages = map[PackageID]bool{
	"fontenc":  true,
	"inputenc": true,
	"textcomp": true,
	"ifthen":   true,
	"calc":     true,
	"url":      true,
}

// distNames maps LaTeX package names to the TeX Live package that provides
// them, for the cases where the two differ. Several LaTeX packages may
// consolidate into one distribution package.
var distNames = map[PackageID]DistPackageID{
	"graphicx":     "graphics",
	"color":        "graphics",
	"longtable":    "tools",
	"array":        "tools",
	"multicol":     "tools",
	"verbatim":     "tools",
	"algorithmic":  "algorithms",
	"algorithm":    "algorithms",
	"subcaption":   "caption",
	"colortbl":     "colortbl",
	"tikz":         "pgf",
	"pgfplots":     "pgfplots",
	"babel":        "babel",
	"amsmath":      "amsmath",
	"amssymb":      "amsfonts",
	"amsthm":       "amscls",
	"mathtools":    "mathtools",
	"fancyhdr":     "fancyhdr",
	"natbib":       "natbib",
	"algorithmicx": "algorithmicx",
}

// Map translates a LaTeX package name into the distribution namespace.
// Core packages yield KindCore. Names absent from the table pass through
// unchanged: most LaTeX packages use the same name in TeX Live, so
// passthrough is the default policy for uncataloged packages.
//
// Map is a pure function over static data; the same input always yields
// the same output within a tool version.
func Map(id PackageID) MappingResult {
	if corePackages[id] {
		return MappingResult{Kind: KindCore}
	}
	if dist, ok := distNames[id]; ok {
		return MappingResult{Kind: KindDistribution, Dist: dist}
	}
	return MappingResult{Kind: KindDistribution, Dist: DistPackageID(id)}
}

// IsCore reports whether id belongs to the LaTeX base system.
func IsCore(id PackageID) bool {
	return corePackages[id]
}

// MapAll maps a requirement set into the distribution namespace, dropping
// core packages and consolidating duplicates. The result is sorted.
func MapAll(ids []PackageID) []DistPackageID {
	seen := make(map[DistPackageID]bool, len(ids))
	var out []DistPackageID
	for _, id := range ids {
		r := Map(id)
		if r.Kind == KindCore || seen[r.Dist] {
			continue
		}
		seen[r.Dist] = true
		out = append(out, r.Dist)
	}
	sort.Strings(out)
	return out
}
