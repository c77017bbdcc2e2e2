package incgraph

import (
	"strings"
	"testing"

	"github.com/texenv/texenv/pkg/scan"
)

func TestToDOT_Basic(t *testing.T) {
	res := &scan.Result{
		Files: []scan.SourceFile{
			{Path: "/p/main.tex"},
			{Path: "/p/intro.tex"},
		},
		Edges: []scan.InclusionEdge{
			{From: "/p/main.tex", To: "/p/intro.tex"},
		},
	}

	dot := ToDOT(res, Options{})

	if !strings.Contains(dot, "digraph inclusions") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"/p/main.tex"`) {
		t.Error("ToDOT() output missing main node")
	}
	if !strings.Contains(dot, `"/p/main.tex" -> "/p/intro.tex"`) {
		t.Error("ToDOT() output missing edge")
	}
}

func TestToDOT_StyleFilesDashed(t *testing.T) {
	res := &scan.Result{
		Files: []scan.SourceFile{
			{Path: "/p/main.tex"},
			{Path: "/p/mystyle.sty", IsStyle: true},
		},
	}

	dot := ToDOT(res, Options{})

	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() style file missing dashed style")
	}
	if !strings.Contains(dot, "lightgrey") {
		t.Error("ToDOT() style file missing lightgrey fill")
	}
}

func TestToDOT_RelativeLabels(t *testing.T) {
	res := &scan.Result{
		Files: []scan.SourceFile{{Path: "/p/chapters/one.tex"}},
	}

	dot := ToDOT(res, Options{Root: "/p"})

	if !strings.Contains(dot, `label="chapters/one.tex"`) {
		t.Errorf("ToDOT() should use root-relative labels, got:\n%s", dot)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	res := &scan.Result{
		Files: []scan.SourceFile{
			{Path: "/p/b.tex"},
			{Path: "/p/a.tex"},
		},
		Edges: []scan.InclusionEdge{
			{From: "/p/b.tex", To: "/p/a.tex"},
			{From: "/p/a.tex", To: "/p/b.tex"},
		},
	}

	first := ToDOT(res, Options{})
	for i := 0; i < 5; i++ {
		if got := ToDOT(res, Options{}); got != first {
			t.Fatal("ToDOT() output is not deterministic")
		}
	}
	if strings.Index(first, `"/p/a.tex"`) > strings.Index(first, `"/p/b.tex"`) {
		t.Error("ToDOT() nodes should be sorted by path")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00">`)
	got := string(normalizeViewBox(svg))

	if !strings.Contains(got, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if !strings.Contains(got, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() missing pixel dimensions: %s", got)
	}
}

func TestNormalizeViewBox_NoViewBox(t *testing.T) {
	svg := []byte(`<svg>`)
	if got := normalizeViewBox(svg); string(got) != `<svg>` {
		t.Errorf("normalizeViewBox() should pass through, got %s", got)
	}
}
