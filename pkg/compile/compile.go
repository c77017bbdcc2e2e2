// Package compile runs the LaTeX engine against a project's main file,
// inside the project-local TeX environment.
//
// Documents with a bibliography get the full pass sequence (engine, biber
// or bibtex, then two more engine passes to settle references); everything
// else compiles in a single pass.
package compile

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/texenv/texenv/pkg/errors"
)

// Result describes the outcome of a compilation.
type Result struct {
	PDFPath  string   // produced PDF, empty when compilation failed
	Passes   int      // engine passes executed
	UsedBib  string   // bibliography processor that ran, "" if none
	Warnings []string // advisory findings from the engine log
}

// Runner executes external commands. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, extraEnv []string, name string, args ...string) (output string, exitCode int, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, extraEnv []string, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), extraEnv...)

	var out strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return out.String(), exitErr.ExitCode(), nil
		}
		return out.String(), 0, err
	}
	return out.String(), 0, nil
}

// Options configures a Compiler.
type Options struct {
	// Runner executes the engine. Defaults to the real binaries.
	Runner Runner
	// Logger receives progress messages. Defaults to a no-op.
	Logger func(format string, args ...any)
}

// Compiler drives a LaTeX engine for one project.
type Compiler struct {
	engine    string
	outputDir string
	texmf     string
	run       Runner
	logf      func(format string, args ...any)
}

// New creates a Compiler using the given engine (pdflatex, xelatex,
// lualatex or latex), writing into outputDir and resolving packages from
// the texmf tree at texmfDir.
func New(engine, outputDir, texmfDir string, opts Options) *Compiler {
	r := opts.Runner
	if r == nil {
		r = execRunner{}
	}
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Compiler{engine: engine, outputDir: outputDir, texmf: texmfDir, run: r, logf: logf}
}

var (
	bibliographyRE = regexp.MustCompile(`\\(?:bibliography|addbibresource|printbibliography)\b`)
	citationRE     = regexp.MustCompile(`\\(?:cite|citep|citet|autocite|textcite|parencite)\b`)
	fatalRE        = regexp.MustCompile(`(?m)^!.*|Fatal error occurred|Emergency stop`)
)

// Compile builds the document rooted at texFile. The returned Result is
// non-nil even on failure so callers can surface collected warnings.
func (c *Compiler) Compile(ctx context.Context, texFile string) (*Result, error) {
	content, err := os.ReadFile(texFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", texFile)
	}
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreWrite, err, "creating %s", c.outputDir)
	}

	res := &Result{}
	needsBib := bibliographyRE.Match(content) && citationRE.Match(content)

	out, err := c.enginePass(ctx, texFile, res)
	if err != nil {
		return res, err
	}

	if needsBib {
		if err := c.bibliographyPass(ctx, texFile, res); err != nil {
			return res, err
		}
		// Two more passes settle citations and cross references.
		for i := 0; i < 2; i++ {
			out, err = c.enginePass(ctx, texFile, res)
			if err != nil {
				return res, err
			}
		}
	}

	res.Warnings = append(res.Warnings, adviseFromLog(out)...)

	pdf := c.pdfPath(texFile)
	if _, err := os.Stat(pdf); err != nil {
		return res, errors.New(errors.ErrCodeCompile, "%s produced no PDF", c.engine)
	}
	res.PDFPath = pdf
	return res, nil
}

func (c *Compiler) enginePass(ctx context.Context, texFile string, res *Result) (string, error) {
	res.Passes++
	c.logf("%s pass %d", c.engine, res.Passes)

	out, code, err := c.run.Run(ctx, c.env(),
		c.engine, "-interaction=nonstopmode", "-output-directory="+c.outputDir, texFile)
	if err != nil {
		return out, errors.Wrap(errors.ErrCodeEngineNotFound, err, "%s not found; install TeX Live first", c.engine)
	}
	// Engines exit non-zero for recoverable issues too; only a fatal log
	// marker aborts the sequence.
	if code != 0 && fatalRE.MatchString(out) {
		return out, errors.New(errors.ErrCodeCompile, "%s failed: %s", c.engine, firstErrorLine(out))
	}
	return out, nil
}

// bibliographyPass runs biber and falls back to bibtex when biber is
// missing or rejects the auxiliary files.
func (c *Compiler) bibliographyPass(ctx context.Context, texFile string, res *Result) error {
	job := filepath.Join(c.outputDir, jobname(texFile))

	out, code, err := c.run.Run(ctx, c.env(), "biber", job)
	if err == nil && code == 0 {
		res.UsedBib = "biber"
		return nil
	}
	if err == nil {
		c.logf("biber failed, falling back to bibtex: %s", firstErrorLine(out))
	} else {
		c.logf("biber not available, falling back to bibtex")
	}

	out, code, err = c.run.Run(ctx, c.env(), "bibtex", job)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEngineNotFound, err, "neither biber nor bibtex is available")
	}
	if code != 0 {
		// The document still compiles without a processed bibliography;
		// keep going and flag the gap instead of aborting.
		c.logf("bibtex failed, continuing: %s", firstErrorLine(out))
		res.Warnings = append(res.Warnings,
			"bibtex failed: "+firstErrorLine(out)+"; bibliography may be incomplete")
		return nil
	}
	res.UsedBib = "bibtex"
	return nil
}

func (c *Compiler) env() []string {
	return []string{"TEXMFHOME=" + c.texmf}
}

func (c *Compiler) pdfPath(texFile string) string {
	return filepath.Join(c.outputDir, jobname(texFile)+".pdf")
}

func jobname(texFile string) string {
	base := filepath.Base(texFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// adviseFromLog extracts actionable advisories from the final engine pass.
func adviseFromLog(out string) []string {
	var warnings []string
	if strings.Contains(out, "There were undefined references") ||
		strings.Contains(out, "Citation") && strings.Contains(out, "undefined") {
		warnings = append(warnings, "undefined references remain; check citation keys and labels")
	}
	if strings.Contains(out, "Rerun to get cross-references right") {
		warnings = append(warnings, "cross references changed; compile once more")
	}
	if strings.Contains(out, "multiply defined") {
		warnings = append(warnings, "multiply defined labels found")
	}
	return warnings
}

func firstErrorLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "!") || strings.Contains(line, "Fatal error") {
			return line
		}
	}
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		return strings.TrimSpace(out[:i])
	}
	return strings.TrimSpace(out)
}
