package workspace

import (
	"testing"

	"github.com/matzehuels/blockrender/pkg/block"
	errs "github.com/matzehuels/blockrender/pkg/errors"
)

func TestAddBlockAssignsIDs(t *testing.T) {
	w := New("demo")
	b := &block.Block{Type: "a", HasNext: true, Next: &block.Block{Type: "b", HasPrevious: true}}
	if err := w.AddBlock(b); err != nil {
		t.Fatalf("AddBlock() error: %v", err)
	}
	if b.ID == "" || b.Next.ID == "" || b.ID == b.Next.ID {
		t.Errorf("ids not assigned: %q %q", b.ID, b.Next.ID)
	}
	if w.BlockCount() != 2 {
		t.Errorf("BlockCount() = %d, want 2", w.BlockCount())
	}
	got, ok := w.FindBlock(b.Next.ID)
	if !ok || got != b.Next {
		t.Errorf("FindBlock(%q) = %v, %v", b.Next.ID, got, ok)
	}
	if _, ok := w.FindBlock("nope"); ok {
		t.Error("FindBlock(nope) found a block")
	}
}

func TestAddBlockDuplicateID(t *testing.T) {
	w := New("demo")
	if err := w.AddBlock(&block.Block{ID: "x", Type: "a"}); err != nil {
		t.Fatal(err)
	}
	err := w.AddBlock(&block.Block{ID: "x", Type: "b"})
	if !errs.Is(err, errs.ErrCodeDuplicateID) {
		t.Fatalf("AddBlock(dup) error = %v, want DUPLICATE_ID", err)
	}
	if len(w.Blocks) != 1 {
		t.Errorf("rejected block was added")
	}
	if err := w.AddBlock(nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("AddBlock(nil) error = %v", err)
	}
}

func TestVariables(t *testing.T) {
	w := New("demo")
	v, err := w.AddVariable("count", "")
	if err != nil {
		t.Fatalf("AddVariable() error: %v", err)
	}
	if v.ID == "" {
		t.Fatal("AddVariable() returned no id")
	}
	if got, ok := w.Variable(v.ID); !ok || got != v {
		t.Errorf("Variable(%q) = %v, %v", v.ID, got, ok)
	}

	tests := []struct {
		name string
		v    Variable
		code errs.Code
	}{
		{"same name and type", Variable{Name: "count"}, errs.ErrCodeDuplicateID},
		{"same id", Variable{ID: v.ID, Name: "other"}, errs.ErrCodeDuplicateID},
		{"no name", Variable{ID: "z"}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.PutVariable(tt.v); !errs.Is(err, tt.code) {
				t.Errorf("PutVariable() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := w.AddVariable("count", "Number"); err != nil {
		t.Errorf("same name with another type should be allowed: %v", err)
	}
}

func TestClear(t *testing.T) {
	w := New("demo")
	_ = w.AddBlock(&block.Block{Type: "a"})
	_, _ = w.AddVariable("x", "")
	if w.Empty() {
		t.Fatal("Empty() = true before clearing")
	}
	w.ClearBlocks()
	if len(w.Blocks) != 0 || len(w.Variables) != 1 {
		t.Errorf("ClearBlocks() cleared the wrong things")
	}
	w.ClearVariables()
	if !w.Empty() {
		t.Error("Empty() = false after clearing")
	}
}
