package schema

// Intermediate representation (IR) produced by the extractor and read by emitters.

// IR holds every type and method of the reference document in document order.
// Order is significant: emitters rely on it for deterministic output.
type IR struct {
	Types   []ApiType   `json:"types" yaml:"types"`
	Methods []ApiMethod `json:"methods" yaml:"methods"`
}

type TypeKind string

const (
	ObjectType TypeKind = "object"
	OneOfType  TypeKind = "one_of"
	EmptyType  TypeKind = "empty"
)

// ApiType is a named data type. Object types carry Fields, one-of types carry
// OneOf (names of other types), empty types carry neither.
type ApiType struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Kind        TypeKind `json:"kind" yaml:"kind"`
	Fields      []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	OneOf       []string `json:"one_of,omitempty" yaml:"one_of,omitempty"`
}

type ApiMethod struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Parameters  []Field   `json:"parameters" yaml:"parameters"`
	Returns     ValueType `json:"returns" yaml:"returns"`
}

// Field is either a type field or a method parameter.
type Field struct {
	Name           string    `json:"name" yaml:"name"`
	Type           ValueType `json:"type" yaml:"type"`
	Required       bool      `json:"required" yaml:"required"`
	Description    string    `json:"description" yaml:"description"`
	JSONSerialized bool      `json:"json_serialized,omitempty" yaml:"json_serialized,omitempty"`
}

// TypeByName returns the declared type with the given name.
func (ir *IR) TypeByName(name string) (ApiType, bool) {
	for _, t := range ir.Types {
		if t.Name == name {
			return t, true
		}
	}
	return ApiType{}, false
}

// MethodByName returns the declared method with the given name.
func (ir *IR) MethodByName(name string) (ApiMethod, bool) {
	for _, m := range ir.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return ApiMethod{}, false
}
