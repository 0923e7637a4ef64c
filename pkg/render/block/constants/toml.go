package constants

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

// fileConfig mirrors the on-disk TOML layout:
//
//	base = "geras"
//
//	[constants]
//	NOTCH_WIDTH = 18
//	MIN_ROW_HEIGHT = 28
type fileConfig struct {
	Base      string             `toml:"base,omitempty"`
	Constants map[string]float64 `toml:"constants"`
}

// Decode reads a TOML constants file and resolves it. When base names a
// built-in renderer its table is used as the starting point and the
// [constants] table overrides individual entries; without a base every
// required constant must be listed.
func Decode(r io.Reader) (*Set, error) {
	var cfg fileConfig
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfiguration, err, "parse constants")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeConfiguration, "unknown keys in constants file: %v", undecoded)
	}

	table := Table{}
	if cfg.Base != "" {
		base, ok := Builtin(cfg.Base)
		if !ok {
			return nil, errs.New(errs.ErrCodeConfiguration, "unknown base renderer %q (must be one of: %v)", cfg.Base, Renderers())
		}
		table = base
	}
	for name, v := range cfg.Constants {
		table[name] = v
	}
	return Resolve(table)
}

// Load reads and resolves the TOML constants file at path.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfiguration, err, "open constants file %s", path)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Encode writes s as a TOML constants file without a base, so the output is
// self-contained.
func Encode(w io.Writer, s *Set) error {
	return toml.NewEncoder(w).Encode(fileConfig{Constants: s.Table()})
}

// Select resolves the constants for a CLI or API request: an explicit file
// wins over a renderer name, and an empty renderer name means the default.
func Select(renderer, path string) (*Set, error) {
	if path != "" {
		return Load(path)
	}
	if renderer == "" {
		renderer = DefaultRenderer
	}
	table, ok := Builtin(renderer)
	if !ok {
		return nil, errs.New(errs.ErrCodeConfiguration, "unknown renderer %q (must be one of: %v)", renderer, Renderers())
	}
	return Resolve(table)
}
