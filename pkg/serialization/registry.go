package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/observability"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// Serializer saves and restores one slice of workspace state.
type Serializer interface {
	// Priority orders serializers: higher values are processed first.
	Priority() int

	// Save returns a JSON-encodable snapshot, or nil when there is nothing
	// to save.
	Save(ws *workspace.Workspace) (any, error)

	// Load restores the snapshot produced by Save.
	Load(data json.RawMessage, ws *workspace.Workspace) error

	// Clear removes this serializer's state from ws.
	Clear(ws *workspace.Workspace)
}

// Phase is the state of a registry entry.
type Phase int

// Entry phases. An entry is Registered when idle and Saving or Loading
// while its serializer runs; Cleared after a Clear until the next pass.
const (
	PhaseRegistered Phase = iota
	PhaseSaving
	PhaseLoading
	PhaseCleared
)

func (p Phase) String() string {
	switch p {
	case PhaseRegistered:
		return "registered"
	case PhaseSaving:
		return "saving"
	case PhaseLoading:
		return "loading"
	case PhaseCleared:
		return "cleared"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

type entry struct {
	id    string
	s     Serializer
	phase Phase
}

// Registry orders serializers by priority and runs them over a workspace.
//
// Entries are kept sorted by descending priority; entries with equal
// priority keep their registration order. Registration must not interleave
// with a pass; a Registry is not safe for concurrent use.
type Registry struct {
	entries []*entry
	logger  *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for skipped state entries.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds s under id. Registering an id twice fails with
// [errs.ErrCodeDuplicateID] and leaves the registry unchanged.
func (r *Registry) Register(id string, s Serializer) error {
	if id == "" {
		return errs.New(errs.ErrCodeInvalidInput, "serializer id is empty")
	}
	if s == nil {
		return errs.New(errs.ErrCodeInvalidInput, "serializer %q is nil", id)
	}
	if r.find(id) >= 0 {
		return errs.New(errs.ErrCodeDuplicateID, "serializer %q already registered", id)
	}

	// Insert after every entry of greater or equal priority.
	p := s.Priority()
	i := len(r.entries)
	for i > 0 && r.entries[i-1].s.Priority() < p {
		i--
	}
	r.entries = slices.Insert(r.entries, i, &entry{id: id, s: s})
	return nil
}

// Unregister removes id. It reports whether id was registered.
func (r *Registry) Unregister(id string) bool {
	i := r.find(id)
	if i < 0 {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return true
}

// IDs returns the registered ids in processing order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.id
	}
	return ids
}

// Phase returns the phase of id.
func (r *Registry) Phase(id string) (Phase, bool) {
	i := r.find(id)
	if i < 0 {
		return 0, false
	}
	return r.entries[i].phase, true
}

// Save collects every serializer's snapshot in priority order. Serializers
// returning nil contribute nothing. The first error aborts the pass and no
// state is returned.
func (r *Registry) Save(ws *workspace.Workspace) (State, error) {
	hooks := observability.Serialization()
	state := make(State)
	for _, e := range r.entries {
		start := time.Now()
		e.phase = PhaseSaving
		v, err := e.s.Save(ws)
		if err == nil && v != nil {
			var data []byte
			data, err = json.Marshal(v)
			if err != nil {
				err = errs.Wrap(errs.ErrCodeInvalidState, err, "encode state")
			} else {
				state[e.id] = data
			}
		}
		e.phase = PhaseRegistered
		hooks.OnSave(e.id, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("save %q: %w", e.id, err)
		}
	}
	return state, nil
}

// Load hands every state entry to its serializer in priority order. Entries
// without a registered serializer are skipped. The first serializer error
// aborts the pass; serializers that already ran keep their changes.
func (r *Registry) Load(state State, ws *workspace.Workspace) error {
	hooks := observability.Serialization()
	for _, id := range r.Unclaimed(state) {
		r.logger.Debug("skipping state without serializer", "id", id)
		hooks.OnSkip(id)
	}

	for _, e := range r.entries {
		data, ok := state[e.id]
		if !ok {
			continue
		}
		start := time.Now()
		e.phase = PhaseLoading
		err := e.s.Load(data, ws)
		e.phase = PhaseRegistered
		hooks.OnLoad(e.id, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("load %q: %w", e.id, err)
		}
	}
	return nil
}

// Clear asks every serializer to clear its state.
func (r *Registry) Clear(ws *workspace.Workspace) {
	for _, e := range r.entries {
		e.s.Clear(ws)
		e.phase = PhaseCleared
	}
}

// Replace clears ws and loads state into it.
func (r *Registry) Replace(state State, ws *workspace.Workspace) error {
	r.Clear(ws)
	return r.Load(state, ws)
}

// Unclaimed returns the ids in state that no serializer is registered for,
// sorted.
func (r *Registry) Unclaimed(state State) []string {
	var ids []string
	for id := range state {
		if r.find(id) < 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (r *Registry) find(id string) int {
	return slices.IndexFunc(r.entries, func(e *entry) bool { return e.id == id })
}
