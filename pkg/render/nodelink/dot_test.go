package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/blockrender/pkg/block"
	"github.com/matzehuels/blockrender/pkg/render/block/styles"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

func demoWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws := workspace.New("demo")
	v, err := ws.AddVariable("count", "Number")
	if err != nil {
		t.Fatal(err)
	}
	root := &block.Block{
		ID: "set", Type: "variables_set", HasPrevious: true, HasNext: true,
		Inputs: []block.Input{{
			Name: "VALUE", Kind: block.InputValue,
			Fields: []block.Field{{Name: "VAR", Kind: block.FieldVariable, Text: "count", VariableID: v.ID}},
			Child:  &block.Block{ID: "num", Type: "math_number", Inputs: []block.Input{{Kind: block.InputDummy, Fields: []block.Field{{Name: "NUM", Text: "3"}}}}},
		}},
		Next: &block.Block{ID: "print", Type: "text_print", HasPrevious: true, Collapsed: true},
	}
	if err := ws.AddBlock(root); err != nil {
		t.Fatal(err)
	}
	return ws
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(demoWorkspace(t), Options{})

	for _, want := range []string{
		`"set" [label="variables_set"]`,
		`"set" -> "num" [label="VALUE"]`,
		`"set" -> "print" [style=dashed]`,
		`style="rounded,filled,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "var:") {
		t.Error("variables drawn without Detailed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	ws := demoWorkspace(t)
	theme := styles.Classic()
	dot := ToDOT(ws, Options{Detailed: true, Theme: &theme})

	varID := "var:" + ws.Variables[0].ID
	for _, want := range []string{
		`label="count: Number", shape=ellipse`,
		`"` + varID + `" -> "set"`,
		`NUM: 3`,
		`fillcolor="` + theme.Colour("math_number") + `"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg></svg>")); string(got) != "<svg></svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
