package serialization

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/blockrender/pkg/block"
	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// recorder is a serializer that logs every call into a shared trace.
type recorder struct {
	id       string
	priority int
	trace    *[]string
	save     any
	saveErr  error
	loadErr  error
	reg      *Registry
	phases   *[]Phase
}

func (r *recorder) Priority() int { return r.priority }

func (r *recorder) Save(*workspace.Workspace) (any, error) {
	*r.trace = append(*r.trace, "save:"+r.id)
	r.observe()
	return r.save, r.saveErr
}

func (r *recorder) Load(json.RawMessage, *workspace.Workspace) error {
	*r.trace = append(*r.trace, "load:"+r.id)
	r.observe()
	return r.loadErr
}

func (r *recorder) Clear(*workspace.Workspace) {
	*r.trace = append(*r.trace, "clear:"+r.id)
}

func (r *recorder) observe() {
	if r.reg != nil && r.phases != nil {
		p, _ := r.reg.Phase(r.id)
		*r.phases = append(*r.phases, p)
	}
}

func TestPriorityOrder(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	for _, s := range []*recorder{
		{id: "zero", priority: 0},
		{id: "neg", priority: -10},
		{id: "high", priority: 100},
		{id: "ten", priority: 10},
	} {
		s.trace = &trace
		s.save = s.id
		if err := reg.Register(s.id, s); err != nil {
			t.Fatalf("Register(%s) error: %v", s.id, err)
		}
	}

	want := []string{"high", "ten", "zero", "neg"}
	if diff := cmp.Diff(want, reg.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	state, err := reg.Save(workspace.New("w"))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := reg.Load(state, workspace.New("w")); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	wantTrace := []string{
		"save:high", "save:ten", "save:zero", "save:neg",
		"load:high", "load:ten", "load:zero", "load:neg",
	}
	if diff := cmp.Diff(wantTrace, trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualPriorityKeepsRegistrationOrder(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		_ = reg.Register(id, &recorder{id: id, priority: 5, trace: &trace})
	}
	_ = reg.Register("first", &recorder{id: "first", priority: 6, trace: &trace})
	_ = reg.Register("d", &recorder{id: "d", priority: 5, trace: &trace})

	want := []string{"first", "c", "a", "b", "d"}
	if diff := cmp.Diff(want, reg.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateID(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	if err := reg.Register("x", &recorder{id: "x", trace: &trace}); err != nil {
		t.Fatal(err)
	}
	err := reg.Register("x", &recorder{id: "x", priority: 99, trace: &trace})
	if !errs.Is(err, errs.ErrCodeDuplicateID) {
		t.Fatalf("Register(dup) error = %v, want DUPLICATE_ID", err)
	}
	if errs.IsFatal(err) {
		t.Error("duplicate registration must be recoverable")
	}
	if diff := cmp.Diff([]string{"x"}, reg.IDs()); diff != "" {
		t.Errorf("registry changed after duplicate (-want +got):\n%s", diff)
	}

	if err := reg.Register("", &recorder{trace: &trace}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Register(\"\") error = %v", err)
	}
	if err := reg.Register("nil", nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Register(nil) error = %v", err)
	}
}

func TestUnregister(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	_ = reg.Register("a", &recorder{id: "a", trace: &trace})
	if !reg.Unregister("a") {
		t.Fatal("Unregister(a) = false")
	}
	if reg.Unregister("a") {
		t.Error("second Unregister(a) = true")
	}
	if err := reg.Register("a", &recorder{id: "a", trace: &trace}); err != nil {
		t.Errorf("re-register after Unregister: %v", err)
	}
}

func TestSaveSkipsNil(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	_ = reg.Register("empty", &recorder{id: "empty", trace: &trace})
	_ = reg.Register("full", &recorder{id: "full", trace: &trace, save: map[string]int{"n": 1}})

	state, err := reg.Save(workspace.New("w"))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if diff := cmp.Diff([]string{"full"}, state.IDs()); diff != "" {
		t.Errorf("state ids mismatch (-want +got):\n%s", diff)
	}
	if string(state["full"]) != `{"n":1}` {
		t.Errorf("state[full] = %s", state["full"])
	}
}

func TestSaveErrorAborts(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	boom := errors.New("boom")
	_ = reg.Register("a", &recorder{id: "a", priority: 2, trace: &trace, save: 1})
	_ = reg.Register("b", &recorder{id: "b", priority: 1, trace: &trace, saveErr: boom})
	_ = reg.Register("c", &recorder{id: "c", priority: 0, trace: &trace, save: 1})

	state, err := reg.Save(workspace.New("w"))
	if !errors.Is(err, boom) {
		t.Fatalf("Save() error = %v, want boom", err)
	}
	if state != nil {
		t.Errorf("Save() returned partial state %v", state)
	}
	if diff := cmp.Diff([]string{"save:a", "save:b"}, trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if p, _ := reg.Phase("b"); p != PhaseRegistered {
		t.Errorf("Phase(b) after failed save = %v", p)
	}
}

func TestLoadForwardCompatible(t *testing.T) {
	var trace []string
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	reg := NewRegistry(WithLogger(logger))
	_ = reg.Register("known", &recorder{id: "known", trace: &trace})

	state := State{
		"known":  json.RawMessage(`1`),
		"future": json.RawMessage(`{"x":1}`),
	}
	if err := reg.Load(state, workspace.New("w")); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff([]string{"load:known"}, trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"future"}, reg.Unclaimed(state)); diff != "" {
		t.Errorf("Unclaimed() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "future") {
		t.Errorf("skipped id not logged:\n%s", buf.String())
	}
}

func TestLoadErrorAborts(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	boom := errs.New(errs.ErrCodeInvalidState, "bad")
	_ = reg.Register("a", &recorder{id: "a", priority: 2, trace: &trace, loadErr: boom})
	_ = reg.Register("b", &recorder{id: "b", priority: 1, trace: &trace})

	err := reg.Load(State{"a": nil, "b": nil}, workspace.New("w"))
	if !errs.Is(err, errs.ErrCodeInvalidState) {
		t.Fatalf("Load() error = %v, want INVALID_STATE", err)
	}
	if diff := cmp.Diff([]string{"load:a"}, trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestPhases(t *testing.T) {
	var trace []string
	var phases []Phase
	reg := NewRegistry()
	s := &recorder{id: "a", trace: &trace, save: 1, reg: reg, phases: &phases}
	_ = reg.Register("a", s)

	if p, ok := reg.Phase("a"); !ok || p != PhaseRegistered {
		t.Fatalf("Phase(a) = %v, %v", p, ok)
	}
	state, _ := reg.Save(workspace.New("w"))
	_ = reg.Load(state, workspace.New("w"))
	if diff := cmp.Diff([]Phase{PhaseSaving, PhaseLoading}, phases); diff != "" {
		t.Errorf("phases mismatch (-want +got):\n%s", diff)
	}

	reg.Clear(workspace.New("w"))
	if p, _ := reg.Phase("a"); p != PhaseCleared {
		t.Errorf("Phase(a) after Clear = %v", p)
	}
	if _, ok := reg.Phase("missing"); ok {
		t.Error("Phase(missing) ok = true")
	}
	if PhaseCleared.String() != "cleared" {
		t.Errorf("PhaseCleared.String() = %q", PhaseCleared.String())
	}
}

func TestReplaceClearsFirst(t *testing.T) {
	var trace []string
	reg := NewRegistry()
	_ = reg.Register("a", &recorder{id: "a", priority: 1, trace: &trace})
	_ = reg.Register("b", &recorder{id: "b", trace: &trace})

	if err := reg.Replace(State{"b": json.RawMessage(`1`)}, workspace.New("w")); err != nil {
		t.Fatal(err)
	}
	want := []string{"clear:a", "clear:b", "load:b"}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func sample(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws := workspace.New("sample")
	v, err := ws.AddVariable("count", "")
	if err != nil {
		t.Fatal(err)
	}
	b := &block.Block{
		Type: "variables_set", HasPrevious: true, HasNext: true,
		Inputs: []block.Input{{Name: "VALUE", Kind: block.InputValue,
			Fields: []block.Field{{Name: "VAR", Kind: block.FieldVariable, VariableID: v.ID}}}},
		Next: &block.Block{Type: "text_print", HasPrevious: true},
	}
	if err := ws.AddBlock(b); err != nil {
		t.Fatal(err)
	}
	return ws
}

func TestDefaultRegistryRoundTrip(t *testing.T) {
	reg := NewDefaultRegistry()
	if diff := cmp.Diff([]string{VariablesID, BlocksID}, reg.IDs()); diff != "" {
		t.Fatalf("IDs() mismatch (-want +got):\n%s", diff)
	}

	src := sample(t)
	state, err := reg.Save(src)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := state.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseState(data)
	if err != nil {
		t.Fatalf("ParseState() error: %v", err)
	}

	dst := workspace.New("copy")
	if err := reg.Replace(parsed, dst); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if diff := cmp.Diff(src.Variables, dst.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(src.Blocks, dst.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}

	again, err := reg.Save(dst)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(state, again); diff != "" {
		t.Errorf("save(load(s)) != s (-want +got):\n%s", diff)
	}
}

func TestLoadIntoSameWorkspace(t *testing.T) {
	reg := NewDefaultRegistry()
	ws := sample(t)
	state, err := reg.Save(ws)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	wantVars := append([]workspace.Variable(nil), ws.Variables...)
	wantCount := ws.BlockCount()

	for i := range 2 {
		if err := reg.Load(state, ws); err != nil {
			t.Fatalf("Load() #%d error: %v", i+1, err)
		}
	}
	if diff := cmp.Diff(wantVars, ws.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
	if len(ws.Blocks) != 1 || ws.BlockCount() != wantCount {
		t.Errorf("got %d stacks, %d blocks; want 1 stack, %d blocks", len(ws.Blocks), ws.BlockCount(), wantCount)
	}

	again, err := reg.Save(ws)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(state, again); diff != "" {
		t.Errorf("save after reload mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyWorkspaceSavesNothing(t *testing.T) {
	state, err := NewDefaultRegistry().Save(workspace.New("empty"))
	if err != nil {
		t.Fatal(err)
	}
	if len(state) != 0 {
		t.Errorf("Save(empty) = %v, want no entries", state.IDs())
	}
}

func TestVariablesLoadBeforeBlocks(t *testing.T) {
	state, err := NewDefaultRegistry().Save(sample(t))
	if err != nil {
		t.Fatal(err)
	}

	// Without the variables entry the block reference dangles.
	noVars := State{BlocksID: state[BlocksID]}
	err = NewDefaultRegistry().Load(noVars, workspace.New("w"))
	if !errs.Is(err, errs.ErrCodeInvalidState) {
		t.Fatalf("Load(blocks only) error = %v, want INVALID_STATE", err)
	}

	if err := NewDefaultRegistry().Load(state, workspace.New("w")); err != nil {
		t.Errorf("Load(full) error: %v", err)
	}
}

func TestBlocksLoadRejectsBrokenTree(t *testing.T) {
	state := State{BlocksID: json.RawMessage(`{"languageVersion":0,"blocks":[{"type":""}]}`)}
	err := NewDefaultRegistry().Load(state, workspace.New("w"))
	if !errs.Is(err, errs.ErrCodeInvalidState) {
		t.Fatalf("Load() error = %v, want INVALID_STATE", err)
	}
}

func TestParseState(t *testing.T) {
	if _, err := ParseState([]byte(`[1,2]`)); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ParseState(array) error = %v", err)
	}
	s, err := ParseState([]byte(`null`))
	if err != nil || s == nil || len(s) != 0 {
		t.Errorf("ParseState(null) = %v, %v", s, err)
	}
}
