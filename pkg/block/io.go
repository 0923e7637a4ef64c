package block

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

// Format is a block file encoding.
type Format string

// Supported block file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks a format from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode reads one block from r.
func Decode(r io.Reader, format Format) (*Block, error) {
	var b Block
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&b); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml block")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&b); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json block")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported block format %q", format)
	}
	return &b, nil
}

// Encode writes b to w in the given format.
func Encode(w io.Writer, b *Block, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unsupported block format %q", format)
}

// Parse decodes a block from data.
func Parse(data []byte, format Format) (*Block, error) {
	return Decode(bytes.NewReader(data), format)
}

// ReadFile reads the block file at path, choosing the format by extension.
func ReadFile(path string) (*Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open block file %s", path)
	}
	defer f.Close()

	b, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// WriteFile writes b to path, choosing the format by extension.
func WriteFile(b *Block, path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, b, FormatFor(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
