package scan

import "regexp"

// defaultTriggers maps a package to the commands and environments whose
// presence implies it. A single match anywhere in a walked non-style file
// is sufficient; occurrence count is irrelevant.
var defaultTriggers = map[string][]*regexp.Regexp{
	// Math packages
	"amsmath": compileAll(
		`\\begin\{align`,
		`\\begin\{equation`,
		`\\begin\{gather`,
		`\\begin\{multline`,
		`\\begin\{split\}`,
	),
	"amssymb": compileAll(`\\mathbb\{`, `\\mathfrak\{`, `\\mathcal\{`),
	"amsthm":  compileAll(`\\newtheorem`, `\\theoremstyle`, `\\begin\{proof\}`),

	// Graphics and figures
	"graphicx":   compileAll(`\\includegraphics`, `\\rotatebox`, `\\scalebox`),
	"subfig":     compileAll(`\\subfloat`, `\\subref`),
	"subcaption": compileAll(`\\subcaptionbox`, `\\begin\{subfigure\}`),
	"tikz":       compileAll(`\\begin\{tikzpicture\}`, `\\tikz`, `\\usetikzlibrary`),
	"pgfplots":   compileAll(`\\begin\{axis\}`, `\\addplot`),

	// Tables and formatting
	"booktabs":  compileAll(`\\toprule`, `\\midrule`, `\\bottomrule`),
	"longtable": compileAll(`\\begin\{longtable\}`),
	"array":     compileAll(`\\newcolumntype`, `\\arraybackslash`),
	"multirow":  compileAll(`\\multirow`),
	"multicol":  compileAll(`\\begin\{multicols\}`),
	"colortbl": compileAll(
		`\\rowcolor\{`,
		`\\columncolor\{`,
		`\\cellcolor\{`,
		`\\usepackage\[.*table.*\]\{xcolor\}`,
	),

	// References and citations
	"hyperref": compileAll(`\\href\{`, `\\url\{`, `\\hyperlink`, `\\autoref`),
	"natbib":   compileAll(`\\citep\{`, `\\citet\{`, `\\citeauthor`),
	"biblatex": compileAll(`\\printbibliography`, `\\addbibresource`, `\\usepackage.*biblatex`),
	"cleveref": compileAll(`\\cref\{`, `\\Cref\{`),

	// Font and encoding
	"babel": compileAll(`\\selectlanguage`, `\\foreignlanguage`),

	// Layout and spacing
	"geometry": compileAll(`\\newgeometry`, `\\restoregeometry`),
	"setspace": compileAll(`\\doublespacing`, `\\onehalfspacing`, `\\setstretch`),
	"fancyhdr": compileAll(`\\fancyhead`, `\\fancyfoot`, `\\pagestyle\{fancy\}`),
	"titlesec": compileAll(`\\titleformat`, `\\titlespacing`),

	// Colors
	"xcolor": compileAll(`\\textcolor\{`, `\\colorbox\{`, `\\definecolor`),
	"color":  compileAll(`\\color\{`),

	// Lists and enumerations
	"enumitem": compileAll(`\\setlist`, `\\newlist`),

	// Code listings
	"listings": compileAll(`\\begin\{lstlisting\}`, `\\lstinputlisting`),
	"minted":   compileAll(`\\begin\{minted\}`, `\\mint\{`),
	"verbatim": compileAll(`\\begin\{verbatim\}`),

	// Algorithms
	"algorithm":    compileAll(`\\begin\{algorithm\}`),
	"algorithmic":  compileAll(`\\begin\{algorithmic\}`),
	"algorithmicx": compileAll(`\\algstore`, `\\algrestore`),

	// Miscellaneous
	"lipsum":    compileAll(`\\lipsum`),
	"blindtext": compileAll(`\\blindtext`, `\\Blindtext`),
	"todonotes": compileAll(`\\todo\{`, `\\missingfigure`),
	"authblk":   compileAll(`\\author\[`, `\\affil\{`),
	"float":     compileAll(`\\newfloat`, `\\floatstyle`),
	"lineno":    compileAll(`\\linenumbers`, `\\modulolinenumbers`),
}

// defaultImplied lists packages that another package pulls in at load time.
// biblatex cannot run without logreq and etoolbox, so detecting it adds
// both to the requirement set.
var defaultImplied = map[string][]string{
	"biblatex": {"logreq", "etoolbox"},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}
