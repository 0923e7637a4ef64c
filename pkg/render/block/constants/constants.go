package constants

import (
	"maps"
	"math"
	"slices"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

// Names of every constant the measurable catalog and the layout aggregator
// read. A provider must supply all of them.
const (
	NoPadding                 = "NO_PADDING"
	SmallPadding              = "SMALL_PADDING"
	MediumPadding             = "MEDIUM_PADDING"
	LargePadding              = "LARGE_PADDING"
	CornerRadius              = "CORNER_RADIUS"
	NotchWidth                = "NOTCH_WIDTH"
	NotchHeight               = "NOTCH_HEIGHT"
	NotchOffsetLeft           = "NOTCH_OFFSET_LEFT"
	TabWidth                  = "TAB_WIDTH"
	TabHeight                 = "TAB_HEIGHT"
	TabOffsetFromTop          = "TAB_OFFSET_FROM_TOP"
	MinRowHeight              = "MIN_ROW_HEIGHT"
	ElementSpacing            = "ELEMENT_SPACING"
	LeftMargin                = "LEFT_MARGIN"
	RightMargin               = "RIGHT_MARGIN"
	FieldMinWidth             = "FIELD_MIN_WIDTH"
	FieldHeight               = "FIELD_HEIGHT"
	EmptyInlineInputPadding   = "EMPTY_INLINE_INPUT_PADDING"
	EmptyInlineInputHeight    = "EMPTY_INLINE_INPUT_HEIGHT"
	ExternalValueInputPadding = "EXTERNAL_VALUE_INPUT_PADDING"
	EmptyStatementInputHeight = "EMPTY_STATEMENT_INPUT_HEIGHT"
	StatementInputNotchOffset = "STATEMENT_INPUT_NOTCH_OFFSET"
	JaggedTeethWidth          = "JAGGED_TEETH_WIDTH"
	JaggedTeethHeight         = "JAGGED_TEETH_HEIGHT"
	ConnectionOffset          = "CONNECTION_OFFSET"
)

// Provider is a read-only source of named layout dimensions.
type Provider interface {
	// Value returns the constant registered under name.
	Value(name string) (float64, bool)
}

// Table is a Provider backed by a map. The zero value is an empty provider.
type Table map[string]float64

// Value implements Provider.
func (t Table) Value(name string) (float64, bool) {
	v, ok := t[name]
	return v, ok
}

// Clone returns an independent copy of t.
func (t Table) Clone() Table {
	return maps.Clone(t)
}

// Set holds every required constant after resolution. It is never mutated
// once returned by Resolve and may be shared freely between layout passes.
type Set struct {
	NoPadding                 float64
	SmallPadding              float64
	MediumPadding             float64
	LargePadding              float64
	CornerRadius              float64
	NotchWidth                float64
	NotchHeight               float64
	NotchOffsetLeft           float64
	TabWidth                  float64
	TabHeight                 float64
	TabOffsetFromTop          float64
	MinRowHeight              float64
	ElementSpacing            float64
	LeftMargin                float64
	RightMargin               float64
	FieldMinWidth             float64
	FieldHeight               float64
	EmptyInlineInputPadding   float64
	EmptyInlineInputHeight    float64
	ExternalValueInputPadding float64
	EmptyStatementInputHeight float64
	StatementInputNotchOffset float64
	JaggedTeethWidth          float64
	JaggedTeethHeight         float64
	ConnectionOffset          float64
}

// fields binds constant names to their slot in a Set.
func (s *Set) fields() map[string]*float64 {
	return map[string]*float64{
		NoPadding:                 &s.NoPadding,
		SmallPadding:              &s.SmallPadding,
		MediumPadding:             &s.MediumPadding,
		LargePadding:              &s.LargePadding,
		CornerRadius:              &s.CornerRadius,
		NotchWidth:                &s.NotchWidth,
		NotchHeight:               &s.NotchHeight,
		NotchOffsetLeft:           &s.NotchOffsetLeft,
		TabWidth:                  &s.TabWidth,
		TabHeight:                 &s.TabHeight,
		TabOffsetFromTop:          &s.TabOffsetFromTop,
		MinRowHeight:              &s.MinRowHeight,
		ElementSpacing:            &s.ElementSpacing,
		LeftMargin:                &s.LeftMargin,
		RightMargin:               &s.RightMargin,
		FieldMinWidth:             &s.FieldMinWidth,
		FieldHeight:               &s.FieldHeight,
		EmptyInlineInputPadding:   &s.EmptyInlineInputPadding,
		EmptyInlineInputHeight:    &s.EmptyInlineInputHeight,
		ExternalValueInputPadding: &s.ExternalValueInputPadding,
		EmptyStatementInputHeight: &s.EmptyStatementInputHeight,
		StatementInputNotchOffset: &s.StatementInputNotchOffset,
		JaggedTeethWidth:          &s.JaggedTeethWidth,
		JaggedTeethHeight:         &s.JaggedTeethHeight,
		ConnectionOffset:          &s.ConnectionOffset,
	}
}

// Required returns the sorted names of every constant a provider must supply.
func Required() []string {
	var s Set
	return slices.Sorted(maps.Keys(s.fields()))
}

// Resolve reads every required constant from p. A missing, negative or
// non-finite value is a configuration error; all offending names are reported at once so a
// hand-written TOML file can be fixed in one go.
func Resolve(p Provider) (*Set, error) {
	if p == nil {
		return nil, errs.New(errs.ErrCodeConfiguration, "no constants provider")
	}

	s := &Set{}
	slots := s.fields()
	var missing, negative, invalid []string
	for _, name := range Required() {
		v, ok := p.Value(name)
		switch {
		case !ok:
			missing = append(missing, name)
		case math.IsNaN(v) || math.IsInf(v, 0):
			invalid = append(invalid, name)
		case v < 0:
			negative = append(negative, name)
		default:
			*slots[name] = v
		}
	}

	if len(missing) > 0 {
		return nil, errs.New(errs.ErrCodeConfiguration, "missing constants: %v", missing)
	}
	if len(invalid) > 0 {
		return nil, errs.New(errs.ErrCodeConfiguration, "non-finite constants: %v", invalid)
	}
	if len(negative) > 0 {
		return nil, errs.New(errs.ErrCodeConfiguration, "negative constants: %v", negative)
	}
	return s, nil
}

// MustResolve is like Resolve but panics on error. It is meant for the
// built-in tables, which are known to be complete.
func MustResolve(p Provider) *Set {
	s, err := Resolve(p)
	if err != nil {
		panic(err)
	}
	return s
}

// Table converts s back into a Provider. Useful for hashing and display.
func (s *Set) Table() Table {
	t := make(Table)
	for name, v := range s.fields() {
		t[name] = *v
	}
	return t
}
