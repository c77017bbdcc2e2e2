package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/texenv/texenv/pkg/errors"
)

// SourceFile is a walked project file: its canonical path and raw content.
// Owned transiently by a single walk; never persisted.
type SourceFile struct {
	Path    string // absolute, cleaned path
	Content string
	IsStyle bool // local .sty file belonging to the project
}

// InclusionEdge is a directed relation between two walked files established
// by an inclusion directive. Edges drive traversal and graph export only.
type InclusionEdge struct {
	From string
	To   string
}

// Result holds the outcome of walking a project's inclusion graph.
type Result struct {
	Files    []SourceFile
	Edges    []InclusionEdge
	Warnings []string
}

var (
	inclusionRE = regexp.MustCompile(`\\(?:input|include|subfile|InputIfFileExists)\{([^}]*)\}`)
	// usepackage targets are scanned during the walk only to pull local
	// project .sty files into the walked set.
	usepackageRE = regexp.MustCompile(`\\usepackage(?:\[[^\]]*\])?\{([^}]+)\}`)
)

// Walker traverses a LaTeX source tree from a main file.
type Walker struct {
	root string // project root, fallback base for inclusion targets
}

// NewWalker creates a Walker for the project rooted at root.
func NewWalker(root string) *Walker {
	return &Walker{root: root}
}

// Walk reads mainFile (relative to the project root unless absolute) and
// every file transitively reachable through inclusion directives. The
// visited set guarantees each resolved path is read at most once, so
// inclusion cycles terminate. A missing or unreadable included file is a
// warning; only an unreadable main file is an error.
func (w *Walker) Walk(mainFile string) (*Result, error) {
	start := mainFile
	if !filepath.IsAbs(start) {
		start = filepath.Join(w.root, mainFile)
	}
	start, err := canonicalize(start)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "main file %s", mainFile)
	}

	res := &Result{}
	visited := map[string]bool{}
	queue := []string{start}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if visited[path] {
			continue
		}
		visited[path] = true

		data, err := os.ReadFile(path)
		if err != nil {
			if path == start {
				return nil, errors.Wrap(errors.ErrCodeFileRead, err, "main file %s", mainFile)
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("cannot read %s: %v", path, err))
			continue
		}

		sf := SourceFile{
			Path:    path,
			Content: string(data),
			IsStyle: strings.HasSuffix(path, ".sty"),
		}
		res.Files = append(res.Files, sf)

		for _, target := range w.targets(sf) {
			res.Edges = append(res.Edges, InclusionEdge{From: path, To: target})
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	return res, nil
}

// targets extracts and resolves the inclusion targets of a file. Targets
// without an extension get the standard .tex extension. Relative targets
// resolve against the including file's directory, then against the project
// root. Local .sty files named by \usepackage are pulled into the walk so
// the detector can exclude their content from inference.
func (w *Walker) targets(sf SourceFile) []string {
	var out []string
	for _, line := range strings.Split(sf.Content, "\n") {
		line = stripComment(line)

		for _, m := range inclusionRE.FindAllStringSubmatch(line, -1) {
			name := strings.TrimSpace(m[1])
			if name == "" {
				continue
			}
			if !strings.HasSuffix(name, ".tex") {
				name += ".tex"
			}
			out = append(out, w.resolve(filepath.Dir(sf.Path), name))
		}

		for _, m := range usepackageRE.FindAllStringSubmatch(line, -1) {
			for _, pkg := range strings.Split(m[1], ",") {
				pkg = strings.TrimSpace(pkg)
				if pkg == "" {
					continue
				}
				sty := filepath.Join(w.root, pkg+".sty")
				if _, err := os.Stat(sty); err == nil {
					out = append(out, filepath.Clean(sty))
				}
			}
		}
	}
	return out
}

// resolve turns an inclusion target into a canonical path, preferring the
// including file's directory and falling back to the project root.
func (w *Walker) resolve(baseDir, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	candidate := filepath.Join(baseDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return filepath.Clean(candidate)
	}
	return filepath.Clean(filepath.Join(w.root, name))
}

// canonicalize returns the absolute cleaned form of path.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// stripComment cuts a line at the first unescaped %. LaTeX treats \% as a
// literal percent sign, so an escaped one does not start a comment.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '%' && (i == 0 || line[i-1] != '\\') {
			return line[:i]
		}
	}
	return line
}
