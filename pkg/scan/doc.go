// Package scan discovers the source files of a LaTeX project and detects
// which packages they require.
//
// The [Walker] performs a work-list traversal of the inclusion graph rooted
// at the project's main file, following \input, \include, \subfile and
// \InputIfFileExists directives. A visited set of canonicalized paths makes
// the traversal cycle-safe: no file is read twice, and inclusion cycles
// terminate. Missing included files are recorded as warnings rather than
// aborting the walk.
//
// The [Detector] combines two strategies over the walked file set:
//
//   - explicit \usepackage declarations, including the comma-separated
//     multi-package form
//   - a static trigger table mapping commands and environments to the
//     package that provides them (e.g. \includegraphics implies graphicx)
//
// Commented-out lines are excluded from both strategies. Local style files
// belonging to the project are walked but never contribute requirements,
// and packages backed by a local .sty are filtered out of the result.
package scan
