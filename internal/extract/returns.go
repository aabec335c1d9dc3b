package extract

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/botspec/internal/schema"
)

// returnRule reads a return type out of method prose. typeText builds the type
// phrase from the submatches; it is compiled with the ordinary type grammar.
type returnRule struct {
	re       *regexp.Regexp
	typeText func(m []string) string
}

func literalText(s string) func([]string) string { return func([]string) string { return s } }

func capture(format string) func([]string) string {
	return func(m []string) string { return fmt.Sprintf(format, m[1]) }
}

var returnRules = []returnRule{
	{regexp.MustCompile(`[Rr]eturns True on success`), literalText("True")},
	{regexp.MustCompile(`True is returned`), literalText("True")},
	{regexp.MustCompile(`[Rr]eturns (?:an? )?(?:[Aa]rray|list) of (\w+) objects`), capture("Array of %s")},
	{regexp.MustCompile(`[Oo]n success, an? (?:[Aa]rray|list) of (\w+) objects?[^.]*? (?:is|are) returned`), capture("Array of %s")},
	{regexp.MustCompile(`\b(?:the|an?) (?:sent |edited |stopped |uploaded |created |revoked |new )?(\w+)(?: object)? is returned`), capture("%s")},
	{regexp.MustCompile(`[Rr]eturns [^.]*?\b(?:as|in form of|in the form of) an? (\w+) object`), capture("%s")},
	{regexp.MustCompile(`[Rr]eturns an? (\w+) object`), capture("%s")},
	{regexp.MustCompile(`[Rr]eturns [^.]*? as (String|Integer) on success`), capture("%s")},
	{regexp.MustCompile(`[Rr]eturns Int on success`), literalText("Integer")},
}

// inferReturnType collects every type the description names as a result.
// One distinct type is returned as is; several become a union in order of
// appearance among the rules. No match yields Unresolved.
func inferReturnType(plain string) schema.ValueType {
	var found []schema.ValueType
	for _, rule := range returnRules {
		for _, m := range rule.re.FindAllStringSubmatch(plain, -1) {
			vt, err := CompileType(rule.typeText(m))
			if err != nil {
				// prose captured a word that is not a type name
				continue
			}
			if !containsType(found, vt) {
				found = append(found, vt)
			}
		}
	}
	switch len(found) {
	case 0:
		return schema.Unresolved()
	case 1:
		return found[0]
	default:
		return schema.UnionOf(found...)
	}
}

func containsType(list []schema.ValueType, v schema.ValueType) bool {
	for _, t := range list {
		if t.Equal(v) {
			return true
		}
	}
	return false
}

// ReturnHint pins the return type of a method whose description does not.
// The description is part of the key so that a reworded method is noticed
// instead of silently keeping a stale answer.
type ReturnHint struct {
	Method      string `yaml:"method"`
	Description string `yaml:"description"`
	Returns     string `yaml:"returns"`
}

type hintKey struct {
	method      string
	description string
}

// ReturnHints is the compiled lookup table built from ReturnHint entries.
type ReturnHints struct {
	table map[hintKey]schema.ValueType
}

// NewReturnHints compiles the returns text of every hint.
func NewReturnHints(hints []ReturnHint) (*ReturnHints, error) {
	rh := &ReturnHints{table: make(map[hintKey]schema.ValueType, len(hints))}
	for i, h := range hints {
		method := strings.TrimSpace(h.Method)
		if method == "" {
			return nil, fmt.Errorf("return hint %d: method is required", i)
		}
		vt, err := CompileType(h.Returns)
		if err != nil {
			return nil, fmt.Errorf("return hint %d (%s): %w", i, method, err)
		}
		rh.table[hintKey{method: method, description: collapse(h.Description)}] = vt
	}
	return rh, nil
}

// LoadReturnHints reads a YAML list of hints from path.
func LoadReturnHints(path string) (*ReturnHints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read return hints: %w", err)
	}
	var hints []ReturnHint
	if err := yaml.Unmarshal(data, &hints); err != nil {
		return nil, fmt.Errorf("parse return hints %s: %w", path, err)
	}
	return NewReturnHints(hints)
}

// Lookup returns the hinted type for a method and its plain-text description.
func (rh *ReturnHints) Lookup(method, description string) (schema.ValueType, bool) {
	if rh == nil {
		return schema.ValueType{}, false
	}
	vt, ok := rh.table[hintKey{method: method, description: collapse(description)}]
	return vt, ok
}

func (rh *ReturnHints) Len() int {
	if rh == nil {
		return 0
	}
	return len(rh.table)
}

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }
