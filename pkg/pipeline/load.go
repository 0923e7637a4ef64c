package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/blockrender/pkg/block"
	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/serialization"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// LoadFile reads a pipeline input. JSON objects without a block "type" are
// saved workspace states and are restored through reg;
// anything else is read as a single block tree in JSON or YAML. The
// workspace is named after the file.
func LoadFile(path string, reg *serialization.Registry) (*workspace.Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNotFound, err, "read %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadBytes(data, block.FormatFor(path), name, reg)
}

// LoadBytes is LoadFile for in-memory input.
func LoadBytes(data []byte, format block.Format, name string, reg *serialization.Registry) (*workspace.Workspace, error) {
	ws := workspace.New(name)
	if format == block.FormatJSON && isState(data) {
		state, err := serialization.ParseState(data)
		if err != nil {
			return nil, err
		}
		if err := reg.Load(state, ws); err != nil {
			return nil, err
		}
		return ws, nil
	}

	b, err := block.Parse(data, format)
	if err != nil {
		return nil, err
	}
	if err := ws.AddBlock(b); err != nil {
		return nil, err
	}
	return ws, nil
}

func isState(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&probe); err != nil {
		return false
	}
	_, hasType := probe["type"]
	return !hasType
}
