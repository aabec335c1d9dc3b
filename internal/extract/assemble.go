package extract

import (
	"github.com/mark3labs/botspec/internal/schema"
)

// assembler folds finished entities into the IR in document order and keeps
// the naming invariants: unique type names, unique method names, unique
// field names within an entity.
type assembler struct {
	ir      schema.IR
	types   map[string]struct{}
	methods map[string]struct{}
}

func newAssembler() *assembler {
	return &assembler{
		ir:      schema.IR{Types: []schema.ApiType{}, Methods: []schema.ApiMethod{}},
		types:   make(map[string]struct{}),
		methods: make(map[string]struct{}),
	}
}

func (a *assembler) addType(t schema.ApiType) error {
	if _, dup := a.types[t.Name]; dup {
		return newError(NamingViolation, StageAssemble, t.Name, t.Name, "type declared twice")
	}
	if err := uniqueFields(t.Name, t.Fields); err != nil {
		return err
	}
	if t.Kind == schema.OneOfType {
		seen := make(map[string]struct{}, len(t.OneOf))
		for _, member := range t.OneOf {
			if _, dup := seen[member]; dup {
				return newError(NamingViolation, StageAssemble, t.Name, member, "one-of member listed twice")
			}
			seen[member] = struct{}{}
		}
	}
	a.types[t.Name] = struct{}{}
	a.ir.Types = append(a.ir.Types, t)
	return nil
}

func (a *assembler) addMethod(m schema.ApiMethod) error {
	if _, dup := a.methods[m.Name]; dup {
		return newError(NamingViolation, StageAssemble, m.Name, m.Name, "method declared twice")
	}
	if err := uniqueFields(m.Name, m.Parameters); err != nil {
		return err
	}
	a.methods[m.Name] = struct{}{}
	a.ir.Methods = append(a.ir.Methods, m)
	return nil
}

func uniqueFields(owner string, fields []schema.Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return newError(NamingViolation, StageAssemble, owner, f.Name, "field declared twice")
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// validateClosure checks that every type reference, one-of member included,
// names a declared type or one of the opaque names.
func validateClosure(ir *schema.IR, opaque map[string]struct{}) error {
	declared := make(map[string]struct{}, len(ir.Types))
	for _, t := range ir.Types {
		declared[t.Name] = struct{}{}
	}
	resolves := func(name string) bool {
		if _, ok := declared[name]; ok {
			return true
		}
		_, ok := opaque[name]
		return ok
	}
	checkFields := func(owner string, fields []schema.Field) error {
		for _, f := range fields {
			for _, ref := range f.Type.Refs() {
				if !resolves(ref) {
					return newError(DanglingReference, StageAssemble, owner, ref, "%s refers to undeclared type %s", f.Name, ref)
				}
			}
		}
		return nil
	}

	for _, t := range ir.Types {
		for _, member := range t.OneOf {
			if !resolves(member) {
				return newError(DanglingReference, StageAssemble, t.Name, member, "one-of member %s is not declared", member)
			}
		}
		if err := checkFields(t.Name, t.Fields); err != nil {
			return err
		}
	}
	for _, m := range ir.Methods {
		if err := checkFields(m.Name, m.Parameters); err != nil {
			return err
		}
		for _, ref := range m.Returns.Refs() {
			if !resolves(ref) {
				return newError(DanglingReference, StageAssemble, m.Name, ref, "return type refers to undeclared type %s", ref)
			}
		}
	}
	return nil
}
