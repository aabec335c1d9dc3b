package schema

import (
	"strconv"
	"strings"
)

type Kind string

const (
	KindString     Kind = "string"
	KindBoolean    Kind = "boolean"
	KindInteger32  Kind = "integer32"
	KindInteger52  Kind = "integer52"
	KindFloat      Kind = "float"
	KindInputFile  Kind = "input_file"
	KindRef        Kind = "ref"
	KindArray      Kind = "array"
	KindUnion      Kind = "union"
	KindUnresolved Kind = "unresolved"
)

// ValueType is the recursive type of a field, parameter or return value.
// Kind selects which of the remaining members are meaningful:
//
//   - string, boolean, integer32: the matching *Literal may pin a single value
//   - ref: Name is a lookup into the type table, never an owned definition
//   - array: Of is the element type
//   - union: Types holds at least two alternatives
//
// The zero value has an empty Kind and is never produced by the extractor.
type ValueType struct {
	Kind          Kind        `json:"kind" yaml:"kind"`
	Name          string      `json:"name,omitempty" yaml:"name,omitempty"`
	Of            *ValueType  `json:"of,omitempty" yaml:"of,omitempty"`
	Types         []ValueType `json:"types,omitempty" yaml:"types,omitempty"`
	StringLiteral *string     `json:"string_literal,omitempty" yaml:"string_literal,omitempty"`
	BoolLiteral   *bool       `json:"bool_literal,omitempty" yaml:"bool_literal,omitempty"`
	IntLiteral    *int32      `json:"int_literal,omitempty" yaml:"int_literal,omitempty"`
}

func String() ValueType    { return ValueType{Kind: KindString} }
func Boolean() ValueType   { return ValueType{Kind: KindBoolean} }
func Integer32() ValueType { return ValueType{Kind: KindInteger32} }
func Integer52() ValueType { return ValueType{Kind: KindInteger52} }
func Float() ValueType     { return ValueType{Kind: KindFloat} }
func InputFile() ValueType { return ValueType{Kind: KindInputFile} }

// Unresolved marks a return type the description does not pin down.
func Unresolved() ValueType { return ValueType{Kind: KindUnresolved} }

func StringLiteral(s string) ValueType {
	return ValueType{Kind: KindString, StringLiteral: &s}
}

func BooleanLiteral(b bool) ValueType {
	return ValueType{Kind: KindBoolean, BoolLiteral: &b}
}

// True is the boolean type that only ever holds true.
func True() ValueType { return BooleanLiteral(true) }

func Integer32Literal(n int32) ValueType {
	return ValueType{Kind: KindInteger32, IntLiteral: &n}
}

func Ref(name string) ValueType { return ValueType{Kind: KindRef, Name: name} }

func ArrayOf(of ValueType) ValueType { return ValueType{Kind: KindArray, Of: &of} }

// UnionOf wraps alternatives into a union. Callers must pass at least two.
func UnionOf(types ...ValueType) ValueType {
	return ValueType{Kind: KindUnion, Types: append([]ValueType(nil), types...)}
}

func (v ValueType) IsResolved() bool { return v.Kind != KindUnresolved && v.Kind != "" }

// Equal reports structural equality, literals included.
func (v ValueType) Equal(o ValueType) bool {
	if v.Kind != o.Kind || v.Name != o.Name {
		return false
	}
	if !equalPtr(v.StringLiteral, o.StringLiteral) || !equalPtr(v.BoolLiteral, o.BoolLiteral) || !equalPtr(v.IntLiteral, o.IntLiteral) {
		return false
	}
	if (v.Of == nil) != (o.Of == nil) {
		return false
	}
	if v.Of != nil && !v.Of.Equal(*o.Of) {
		return false
	}
	if len(v.Types) != len(o.Types) {
		return false
	}
	for i := range v.Types {
		if !v.Types[i].Equal(o.Types[i]) {
			return false
		}
	}
	return true
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Refs returns every type name referenced by v, depth-first, duplicates kept.
func (v ValueType) Refs() []string {
	var out []string
	var walk func(ValueType)
	walk = func(t ValueType) {
		switch t.Kind {
		case KindRef:
			out = append(out, t.Name)
		case KindArray:
			if t.Of != nil {
				walk(*t.Of)
			}
		case KindUnion:
			for _, alt := range t.Types {
				walk(alt)
			}
		}
	}
	walk(v)
	return out
}

// String renders v in the reference document's own phrasing, for example
// "Array of Integer or String".
func (v ValueType) String() string {
	switch v.Kind {
	case KindString:
		if v.StringLiteral != nil {
			return "String(" + strconv.Quote(*v.StringLiteral) + ")"
		}
		return "String"
	case KindBoolean:
		if v.BoolLiteral != nil {
			if *v.BoolLiteral {
				return "True"
			}
			return "False"
		}
		return "Boolean"
	case KindInteger32:
		if v.IntLiteral != nil {
			return "Integer(" + strconv.Itoa(int(*v.IntLiteral)) + ")"
		}
		return "Integer"
	case KindInteger52:
		return "Integer52"
	case KindFloat:
		return "Float"
	case KindInputFile:
		return "InputFile"
	case KindRef:
		return v.Name
	case KindArray:
		if v.Of == nil {
			return "Array"
		}
		return "Array of " + v.Of.String()
	case KindUnion:
		parts := make([]string, 0, len(v.Types))
		for _, alt := range v.Types {
			parts = append(parts, alt.String())
		}
		return strings.Join(parts, " or ")
	case KindUnresolved:
		return "Unresolved"
	default:
		return "<invalid>"
	}
}
