package tlmgr

import (
	"context"
	"strings"

	"github.com/texenv/texenv/pkg/errors"
)

// Search resolves a LaTeX package name to the distribution package that
// ships its .sty file, using tlmgr's global file index. Results are
// memoized through the cache since the index rarely changes. When nothing
// better is found the name itself is returned.
func (m *Manager) Search(ctx context.Context, name string) (string, error) {
	key := "tlmgr-search:" + name
	if data, hit, err := m.cache.Get(ctx, key); err == nil && hit {
		return string(data), nil
	}

	res, err := m.run.Run(ctx, m.env(), "tlmgr", "search", "--global", "--file", "/"+name+".sty")
	if err != nil {
		return "", notFoundErr(err)
	}
	if res.ExitCode != 0 {
		return "", errors.New(errors.ErrCodeBackend, "tlmgr search failed: %s", firstLine(res.Stderr, res.Stdout))
	}

	resolved := pickCandidate(name, parseSearchOutput(res.Stdout))
	if resolved == "" {
		resolved = name
	}

	if err := m.cache.Set(ctx, key, []byte(resolved), DefaultSearchTTL); err != nil {
		m.logf("caching search result for %s: %v", name, err)
	}
	return resolved, nil
}

// parseSearchOutput extracts package names from tlmgr search output, which
// lists each package as "name:" followed by indented file paths.
func parseSearchOutput(out string) []string {
	var pkgs []string
	for _, line := range strings.Split(out, "\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, ":") {
			continue
		}
		pkg := strings.TrimSuffix(line, ":")
		// Drop platform-specific binaries like foo.x86_64-linux.
		if i := strings.IndexByte(pkg, '.'); i >= 0 {
			pkg = pkg[:i]
		}
		if pkg != "" {
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs
}

// pickCandidate chooses the most plausible distribution package among the
// search hits. Exact name matches win, then packages containing the name.
// Schemes and collections never ship a single style file usefully.
func pickCandidate(name string, candidates []string) string {
	var containing string
	var first string
	for _, c := range candidates {
		if strings.HasPrefix(c, "scheme-") || strings.HasPrefix(c, "collection-") {
			continue
		}
		if c == name {
			return c
		}
		if containing == "" && strings.Contains(c, name) {
			containing = c
		}
		if first == "" {
			first = c
		}
	}
	if containing != "" {
		return containing
	}
	return first
}
