package constants

import (
	"maps"
	"slices"
)

// Built-in renderer names.
const (
	RendererGeras = "geras"
	RendererZelos = "zelos"
)

// DefaultRenderer is used when no renderer is named.
const DefaultRenderer = RendererGeras

// Geras returns the constants of the classic compact renderer.
func Geras() Table {
	return Table{
		NoPadding:                 0,
		SmallPadding:              3,
		MediumPadding:             5,
		LargePadding:              10,
		CornerRadius:              8,
		NotchWidth:                15,
		NotchHeight:               4,
		NotchOffsetLeft:           15,
		TabWidth:                  8,
		TabHeight:                 15,
		TabOffsetFromTop:          5,
		MinRowHeight:              24,
		ElementSpacing:            5,
		LeftMargin:                5,
		RightMargin:               5,
		FieldMinWidth:             10,
		FieldHeight:               16,
		EmptyInlineInputPadding:   14.5,
		EmptyInlineInputHeight:    26,
		ExternalValueInputPadding: 2,
		EmptyStatementInputHeight: 24,
		StatementInputNotchOffset: 15,
		JaggedTeethWidth:          6,
		JaggedTeethHeight:         12,
		ConnectionOffset:          7.5,
	}
}

// Zelos returns the constants of the large touch-friendly renderer.
func Zelos() Table {
	return Table{
		NoPadding:                 0,
		SmallPadding:              4,
		MediumPadding:             8,
		LargePadding:              16,
		CornerRadius:              4,
		NotchWidth:                36,
		NotchHeight:               8,
		NotchOffsetLeft:           16,
		TabWidth:                  12,
		TabHeight:                 24,
		TabOffsetFromTop:          0,
		MinRowHeight:              48,
		ElementSpacing:            8,
		LeftMargin:                8,
		RightMargin:               8,
		FieldMinWidth:             24,
		FieldHeight:               32,
		EmptyInlineInputPadding:   16,
		EmptyInlineInputHeight:    40,
		ExternalValueInputPadding: 4,
		EmptyStatementInputHeight: 32,
		StatementInputNotchOffset: 16,
		JaggedTeethWidth:          8,
		JaggedTeethHeight:         16,
		ConnectionOffset:          18,
	}
}

var builtins = map[string]func() Table{
	RendererGeras: Geras,
	RendererZelos: Zelos,
}

// Builtin returns a fresh copy of the named built-in table.
func Builtin(name string) (Table, bool) {
	fn, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Renderers lists the built-in renderer names in sorted order.
func Renderers() []string {
	return slices.Sorted(maps.Keys(builtins))
}
