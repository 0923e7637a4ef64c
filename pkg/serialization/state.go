package serialization

import (
	"encoding/json"
	"maps"
	"slices"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

// State is a saved workspace: serializer id to that serializer's opaque
// JSON snapshot.
type State map[string]json.RawMessage

// IDs returns the ids present in s, sorted.
func (s State) IDs() []string {
	return slices.Sorted(maps.Keys(s))
}

// Marshal encodes s as an indented JSON object.
func (s State) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ParseState decodes a JSON object produced by State.Marshal.
func ParseState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode workspace state")
	}
	if s == nil {
		s = State{}
	}
	return s, nil
}
