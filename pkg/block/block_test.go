package block

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

func ifBlock() *Block {
	return &Block{
		ID:          "if1",
		Type:        "controls_if",
		HasPrevious: true,
		HasNext:     true,
		Inputs: []Input{
			{Name: "IF0", Kind: InputValue, Fields: []Field{{Name: "LABEL", Kind: FieldLabel, Text: "if"}}},
			{Name: "DO0", Kind: InputStatement, Child: &Block{
				ID: "print1", Type: "text_print", HasPrevious: true, HasNext: true,
				Inputs: []Input{{Kind: InputDummy, Fields: []Field{{Name: "VAR", Kind: FieldVariable, VariableID: "v1"}}}},
				Next: &Block{ID: "print2", Type: "text_print", HasPrevious: true},
			}},
		},
		Next: &Block{ID: "after", Type: "text_print", HasPrevious: true},
	}
}

func TestWalkOrder(t *testing.T) {
	var got []string
	ifBlock().Walk(func(b *Block) bool {
		got = append(got, b.ID)
		return true
	})
	want := []string{"if1", "print1", "print2", "after"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkStops(t *testing.T) {
	n := 0
	done := ifBlock().Walk(func(b *Block) bool {
		n++
		return b.ID != "print1"
	})
	if done || n != 2 {
		t.Errorf("Walk() = %v after %d visits, want false after 2", done, n)
	}
}

func TestCountAndEnsureIDs(t *testing.T) {
	b := ifBlock()
	b.Next.ID = ""
	b.Inputs[1].Child.Next.ID = ""

	if b.Count() != 4 {
		t.Errorf("Count() = %d, want 4", b.Count())
	}

	i := 0
	b.EnsureIDs(func() string {
		i++
		return fmt.Sprintf("gen%d", i)
	})
	if b.Inputs[1].Child.Next.ID != "gen1" || b.Next.ID != "gen2" {
		t.Errorf("EnsureIDs assigned %q, %q", b.Inputs[1].Child.Next.ID, b.Next.ID)
	}
	if b.ID != "if1" {
		t.Errorf("EnsureIDs must keep existing ids, got %q", b.ID)
	}
}

func TestVariableIDs(t *testing.T) {
	if diff := cmp.Diff([]string{"v1"}, ifBlock().VariableIDs()); diff != "" {
		t.Errorf("VariableIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateTree(t *testing.T) {
	if err := ifBlock().ValidateTree(); err != nil {
		t.Fatalf("ValidateTree() error: %v", err)
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Block)
	}{
		{"no type", func(b *Block) { b.Type = "" }},
		{"unknown shape", func(b *Block) { b.Shape = "hexagon" }},
		{"unknown kind", func(b *Block) { b.Inputs[0].Kind = "sideways" }},
		{"duplicate input", func(b *Block) { b.Inputs[1].Name = "IF0" }},
		{"unnamed value input", func(b *Block) { b.Inputs[0].Name = "" }},
		{"duplicate field", func(b *Block) {
			b.Inputs[1].Fields = []Field{{Name: "LABEL"}}
		}},
		{"negative field", func(b *Block) { b.Inputs[0].Fields[0].Width = -1 }},
		{"variable without id", func(b *Block) {
			b.Inputs[0].Fields[0] = Field{Name: "V", Kind: FieldVariable}
		}},
		{"child on dummy", func(b *Block) {
			b.Inputs = append(b.Inputs, Input{Kind: InputDummy, Child: &Block{Type: "x"}})
		}},
		{"statement child without previous", func(b *Block) { b.Inputs[1].Child.HasPrevious = false }},
		{"next without connection", func(b *Block) { b.HasNext = false }},
		{"next without previous", func(b *Block) { b.Next.HasPrevious = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ifBlock()
			tt.mutate(b)
			err := b.ValidateTree()
			if !errs.Is(err, errs.ErrCodeContractViolation) {
				t.Fatalf("ValidateTree() error = %v, want CONTRACT_VIOLATION", err)
			}
		})
	}
}

func TestValidateNestedViolation(t *testing.T) {
	b := ifBlock()
	b.Inputs[1].Child.Next.Type = ""
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() checks only the block itself, got %v", err)
	}
	if err := b.ValidateTree(); !errs.Is(err, errs.ErrCodeContractViolation) {
		t.Fatalf("ValidateTree() error = %v, want CONTRACT_VIOLATION", err)
	}
}

func TestEncodeDecodeFormats(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, ifBlock(), format); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if diff := cmp.Diff(ifBlock(), got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeYAMLDocument(t *testing.T) {
	src := `
type: math_change
previous: true
next: true
inputs:
  - name: DELTA
    kind: value
    fields:
      - {name: LABEL, kind: label, text: change, width: 48}
`
	b, err := Decode(strings.NewReader(src), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !b.HasPrevious || !b.HasNext || len(b.Inputs) != 1 || b.Inputs[0].Fields[0].Width != 48 {
		t.Errorf("decoded block = %+v", b)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"type":"x","colour":3}`), FormatJSON); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("json: error = %v, want INVALID_FORMAT", err)
	}
	if _, err := Decode(strings.NewReader("type: x\ncolour: 3\n"), FormatYAML); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("yaml: error = %v, want INVALID_FORMAT", err)
	}
	if _, err := Decode(strings.NewReader("{}"), "xml"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("xml: error = %v, want INVALID_FORMAT", err)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "b.yaml", "b.yml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(ifBlock(), path); err != nil {
			t.Fatalf("WriteFile(%s) error: %v", name, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s) error: %v", name, err)
		}
		if diff := cmp.Diff(ifBlock(), got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Fatalf("error = %v, want %s", err, errs.ErrCodeInvalidPath)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.json": FormatJSON,
		"a":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %q, want %q", path, got, want)
		}
	}
}
