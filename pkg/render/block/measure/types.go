package measure

import (
	"fmt"
	"strings"
)

// Type is a bitmask of the categories a measurable satisfies. A single
// measurable usually carries several bits: a left square corner is a
// Corner, Left and Square at the same time.
type Type uint32

// Category bits.
const (
	None Type = 0

	Field Type = 1 << iota
	Spacer
	InRowSpacer
	ExternalSpacer
	Input
	InlineInput
	ExternalValueInput
	StatementInput
	Connection
	PreviousConnection
	NextConnection
	Corner
	Left
	Right
	Square
	Round
	JaggedEdge
)

// Composite tags for the corner variants.
const (
	LeftSquareCorner  = Corner | Left | Square
	RightSquareCorner = Corner | Right | Square
	LeftRoundCorner   = Corner | Left | Round
	RightRoundCorner  = Corner | Right | Round
)

var typeNames = []struct {
	t    Type
	name string
}{
	{Field, "field"},
	{Spacer, "spacer"},
	{InRowSpacer, "in-row-spacer"},
	{ExternalSpacer, "external-spacer"},
	{Input, "input"},
	{InlineInput, "inline-input"},
	{ExternalValueInput, "external-value-input"},
	{StatementInput, "statement-input"},
	{Connection, "connection"},
	{PreviousConnection, "previous-connection"},
	{NextConnection, "next-connection"},
	{Corner, "corner"},
	{Left, "left"},
	{Right, "right"},
	{Square, "square"},
	{Round, "round"},
	{JaggedEdge, "jagged-edge"},
}

// Is reports whether t carries every bit of q. The zero query never matches.
func (t Type) Is(q Type) bool {
	return q != None && t&q == q
}

// Any reports whether t carries at least one bit of q.
func (t Type) Any(q Type) bool {
	return t&q != 0
}

// String renders the set bits joined by '|', e.g. "corner|left|square".
func (t Type) String() string {
	if t == None {
		return "none"
	}
	var parts []string
	for _, tn := range typeNames {
		if t&tn.t != 0 {
			parts = append(parts, tn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Kind names the most specific variant of t, used as a CSS class and in
// JSON output.
func (t Type) Kind() string {
	switch {
	case t.Is(Corner):
		side := "left"
		if t.Is(Right) {
			side = "right"
		}
		shape := "square"
		if t.Is(Round) {
			shape = "round"
		}
		return side + "-" + shape + "-corner"
	case t.Is(PreviousConnection):
		return "previous-connection"
	case t.Is(NextConnection):
		return "next-connection"
	case t.Is(InlineInput):
		return "inline-input"
	case t.Is(ExternalValueInput):
		return "external-value-input"
	case t.Is(StatementInput):
		return "statement-input"
	case t.Is(InRowSpacer):
		return "in-row-spacer"
	case t.Is(ExternalSpacer):
		return "external-spacer"
	case t.Is(Field):
		return "field"
	case t.Is(JaggedEdge):
		return "jagged-edge"
	}
	return "none"
}

// ParseKind is the inverse of Type.Kind.
func ParseKind(kind string) (Type, bool) {
	t, ok := kinds[kind]
	return t, ok
}

var kinds = map[string]Type{
	"left-square-corner":   LeftSquareCorner,
	"right-square-corner":  RightSquareCorner,
	"left-round-corner":    LeftRoundCorner,
	"right-round-corner":   RightRoundCorner,
	"previous-connection":  Connection | PreviousConnection,
	"next-connection":      Connection | NextConnection,
	"inline-input":         Input | InlineInput,
	"external-value-input": Input | ExternalValueInput,
	"statement-input":      Input | StatementInput,
	"in-row-spacer":        Spacer | InRowSpacer,
	"external-spacer":      Spacer | ExternalSpacer,
	"field":                Field,
	"jagged-edge":          JaggedEdge,
}

// MarshalText encodes t as its Kind, which is how layouts are stored.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.Kind()), nil
}

// UnmarshalText decodes a Kind produced by MarshalText.
func (t *Type) UnmarshalText(b []byte) error {
	if string(b) == "none" {
		*t = None
		return nil
	}
	v, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown measurable kind %q", b)
	}
	*t = v
	return nil
}
